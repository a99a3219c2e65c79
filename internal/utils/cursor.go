package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// FeedbackCursor is an opaque keyset-pagination token over
// (created_at, id), newest first.
type FeedbackCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func EncodeFeedbackCursor(createdAt time.Time, id string) (string, error) {
	b, err := json.Marshal(FeedbackCursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeFeedbackCursor(cursor string) (FeedbackCursor, error) {
	if cursor == "" {
		return FeedbackCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return FeedbackCursor{}, err
	}

	var c FeedbackCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return FeedbackCursor{}, err
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		return FeedbackCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
