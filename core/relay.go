package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// MessageSource fetches the text of a chat message by channel and timestamp.
// A missing message is ("", nil), not an error.
type MessageSource interface {
	FetchMessage(ctx context.Context, channel, ts string) (string, error)
}

// RecordStore locates article pages by URL and writes scores to them.
// FindPageByURL returns "" when no page matches.
type RecordStore interface {
	FindPageByURL(ctx context.Context, url string) (string, error)
	UpdateScore(ctx context.Context, pageID string, score int) (json.RawMessage, error)
}

// Outcome names the terminal state of one event's pipeline. Every outcome
// except OutcomeUpdated is an acknowledged early exit.
type Outcome string

const (
	OutcomeChannelIgnored  Outcome = "Channel not monitored"
	OutcomeReactionIgnored Outcome = "Reaction not processed"
	OutcomeFetchFailed     Outcome = "Message fetch failed"
	OutcomeParseFailed     Outcome = "Article parse failed"
	OutcomePageNotFound    Outcome = "Notion page not found"
	OutcomeUpdated         Outcome = "Notion updated"
)

// Relay runs the reaction pipeline: filter, resolve the message, parse the
// article, locate the page, write the score. One relay serves all events;
// it holds no per-event state.
type Relay struct {
	channel string
	scores  ScoreSet
	source  MessageSource
	store   RecordStore
	logger  *slog.Logger
}

// NewRelay creates a Relay monitoring the given channel.
func NewRelay(channel string, scores ScoreSet, source MessageSource, store RecordStore, logger *slog.Logger) *Relay {
	return &Relay{
		channel: channel,
		scores:  scores,
		source:  source,
		store:   store,
		logger:  logger,
	}
}

// Handle processes one reaction event to its terminal state. The id is the
// transport's correlation id and tags every log line the event produces.
// Early exits return a non-success Outcome and a nil error and a nil
// response. Only a failed score write returns a non-nil error; the caller
// decides how that surfaces at the transport.
func (r *Relay) Handle(ctx context.Context, id string, ev ReactionEvent) (Outcome, json.RawMessage, error) {
	log := r.logger.With("event_id", id, "channel", ev.Channel, "ts", ev.ItemTS, "reaction", ev.Reaction)

	if ev.Channel != r.channel {
		log.Debug("channel not monitored")
		return OutcomeChannelIgnored, nil, nil
	}

	score, ok := r.scores.Score(ev.Reaction)
	if !ok {
		log.Debug("reaction not processed")
		return OutcomeReactionIgnored, nil, nil
	}

	text, err := r.source.FetchMessage(ctx, ev.Channel, ev.ItemTS)
	if err != nil || text == "" {
		log.Error("message fetch failed", "thread_ts", ev.ThreadTS, "error", err)
		return OutcomeFetchFailed, nil, nil
	}

	article := ParseArticle(text)
	if article == nil {
		log.Error("article parse failed", "text", text)
		return OutcomeParseFailed, nil, nil
	}

	pageID, err := r.store.FindPageByURL(ctx, article.URL)
	if err != nil || pageID == "" {
		log.Error("page lookup failed", "url", article.URL, "error", err)
		return OutcomePageNotFound, nil, nil
	}

	resp, err := r.store.UpdateScore(ctx, pageID, score)
	if err != nil {
		log.Error("score update failed", "page_id", pageID, "score", score, "error", err)
		return "", nil, fmt.Errorf("update score for page %s: %w", pageID, err)
	}

	log.Info("score written", "page_id", pageID, "score", score, "url", article.URL)
	return OutcomeUpdated, resp, nil
}
