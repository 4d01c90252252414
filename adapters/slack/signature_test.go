package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	const secret = "8f742231b10e8888abcd99yyyzzz85a5"
	body := []byte(`{"type":"event_callback"}`)
	now := time.Unix(1700000000, 0)

	v := NewVerifier(secret)
	v.now = func() time.Time { return now }

	fresh := strconv.FormatInt(now.Unix(), 10)
	stale := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)

	tests := []struct {
		name      string
		signature string
		timestamp string
		wantErr   bool
	}{
		{
			name:      "valid signature",
			signature: sign(secret, fresh, body),
			timestamp: fresh,
		},
		{
			name:      "wrong secret",
			signature: sign("other-secret", fresh, body),
			timestamp: fresh,
			wantErr:   true,
		},
		{
			name:      "stale timestamp",
			signature: sign(secret, stale, body),
			timestamp: stale,
			wantErr:   true,
		},
		{
			name:      "garbage timestamp",
			signature: sign(secret, "later", body),
			timestamp: "later",
			wantErr:   true,
		},
		{
			name:      "empty signature",
			signature: "",
			timestamp: fresh,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.signature, tt.timestamp, body)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestVerifyTamperedBody(t *testing.T) {
	const secret = "secret"
	now := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)

	v := NewVerifier(secret)
	v.now = func() time.Time { return now }

	sig := sign(secret, ts, []byte(`{"a":1}`))
	if err := v.Verify(sig, ts, []byte(`{"a":2}`)); err == nil {
		t.Fatal("expected error for tampered body")
	}
}
