package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const MaxPayloadBytes = 65536

// EventCallback is the JSON envelope Slack posts to the events endpoint.
// A url_verification handshake carries Challenge; everything else carries Event.
type EventCallback struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// ReactionEvent is one reaction_added notification, flattened from the
// Slack event payload. ThreadTS is diagnostic only.
type ReactionEvent struct {
	Reaction string
	Channel  string
	ItemTS   string
	ThreadTS string
}

type rawEvent struct {
	Type     string `json:"type"`
	Reaction string `json:"reaction"`
	Item     struct {
		Channel  string `json:"channel"`
		TS       string `json:"ts"`
		ThreadTS string `json:"thread_ts"`
	} `json:"item"`
}

// DecodeCallback parses the request body into an EventCallback.
func DecodeCallback(data []byte) (*EventCallback, error) {
	if len(data) > MaxPayloadBytes {
		return nil, fmt.Errorf("payload exceeds %d byte limit", MaxPayloadBytes)
	}

	var cb EventCallback
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&cb); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &cb, nil
}

// ReactionAdded extracts a ReactionEvent from the callback's inner event.
// Returns false when the inner event is absent or not a reaction_added.
func (cb *EventCallback) ReactionAdded() (ReactionEvent, bool) {
	if len(cb.Event) == 0 {
		return ReactionEvent{}, false
	}

	var ev rawEvent
	if err := json.Unmarshal(cb.Event, &ev); err != nil {
		return ReactionEvent{}, false
	}
	if ev.Type != "reaction_added" {
		return ReactionEvent{}, false
	}

	return ReactionEvent{
		Reaction: ev.Reaction,
		Channel:  ev.Item.Channel,
		ItemTS:   ev.Item.TS,
		ThreadTS: ev.Item.ThreadTS,
	}, true
}
