package core

import "strings"

// Article is the structured record parsed out of a shared-link message.
// URL is the lookup key and is always non-empty on a successful parse.
type Article struct {
	Title   string
	URL     string
	Summary string
}

// ParseArticle reads the fixed message format posted by the article bot:
//
//	*Title*
//	<https://example.com/...>
//	optional summary lines
//
// Line 0 is the title with the surrounding asterisks stripped. Line 1 is the
// URL; angle brackets are stripped only when both are present. Any remaining
// lines become the summary. Fewer than two lines is not a parse error in the
// thrown sense: the caller gets nil and moves on.
func ParseArticle(text string) *Article {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil
	}

	title := strings.Trim(strings.TrimSpace(lines[0]), "*")

	url := strings.TrimSpace(lines[1])
	if strings.HasPrefix(url, "<") && strings.HasSuffix(url, ">") {
		url = url[1 : len(url)-1]
	}
	if url == "" {
		return nil
	}

	summary := ""
	if len(lines) > 2 {
		summary = strings.Join(lines[2:], "\n")
	}

	return &Article{Title: title, URL: url, Summary: summary}
}
