package core

// ScoreSet maps reaction names to a binary score. The events endpoint and the
// Bolt-style endpoint accept different reaction lists, so each transport
// carries its own set.
type ScoreSet struct {
	Positive []string
	Negative []string
}

// DefaultScoreSet covers the reactions the primary endpoint accepts,
// including the "+1"/"o" and "-1"/"x" synonyms.
var DefaultScoreSet = ScoreSet{
	Positive: []string{"+1", "thumbsup", "o"},
	Negative: []string{"-1", "thumbsdown", "x"},
}

// BoltScoreSet is the narrower list the Bolt-style endpoint accepts.
var BoltScoreSet = ScoreSet{
	Positive: []string{"thumbsup"},
	Negative: []string{"thumbsdown"},
}

// Score returns 1 for a positive reaction, 0 for a negative one.
// Unrecognized reactions return ok=false and are not processed.
func (s ScoreSet) Score(reaction string) (score int, ok bool) {
	for _, r := range s.Positive {
		if r == reaction {
			return 1, true
		}
	}
	for _, r := range s.Negative {
		if r == reaction {
			return 0, true
		}
	}
	return 0, false
}
