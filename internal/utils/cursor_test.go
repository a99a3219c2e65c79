package utils_test

import (
	"testing"
	"time"

	"github.com/campusbites/canteenhub/internal/utils"
)

func TestFeedbackCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

	encoded, err := utils.EncodeFeedbackCursor(created, "fb-1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := utils.DecodeFeedbackCursor(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !decoded.CreatedAt.Equal(created) || decoded.ID != "fb-1" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeFeedbackCursorRejectsBadInput(t *testing.T) {
	for _, cursor := range []string{"", "%%%", "bm90LWpzb24"} {
		if _, err := utils.DecodeFeedbackCursor(cursor); err == nil {
			t.Fatalf("cursor %q should not decode", cursor)
		}
	}
}
