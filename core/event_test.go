package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeCallback(t *testing.T) {
	t.Run("challenge", func(t *testing.T) {
		cb, err := DecodeCallback([]byte(`{"type":"url_verification","challenge":"tok-123"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cb.Challenge != "tok-123" {
			t.Errorf("challenge = %q, want tok-123", cb.Challenge)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := DecodeCallback([]byte(`{bad`)); err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})

	t.Run("oversized payload", func(t *testing.T) {
		data := []byte(`{"pad":"` + strings.Repeat("a", MaxPayloadBytes) + `"}`)
		if _, err := DecodeCallback(data); err == nil {
			t.Fatal("expected error for oversized payload")
		}
	})
}

func TestReactionAdded(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   ReactionEvent
		wantOK bool
	}{
		{
			name: "reaction added",
			body: `{"type":"event_callback","event":{"type":"reaction_added","reaction":"thumbsup",` +
				`"item":{"channel":"C01","ts":"111.222","thread_ts":"111.000"}}}`,
			want: ReactionEvent{
				Reaction: "thumbsup",
				Channel:  "C01",
				ItemTS:   "111.222",
				ThreadTS: "111.000",
			},
			wantOK: true,
		},
		{
			name:   "other event type",
			body:   `{"type":"event_callback","event":{"type":"message","text":"hi"}}`,
			wantOK: false,
		},
		{
			name:   "missing event",
			body:   `{"type":"event_callback"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, err := DecodeCallback([]byte(tt.body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			got, ok := cb.ReactionAdded()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
