package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor marks "resume listing after this record". It carries the sort key
// of the last record on a page (created_at plus id as tiebreaker) rather
// than any database-internal handle, so the store's internals stay
// swappable.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	Id        string    `json:"id"`
}

// Encode serializes the cursor to an opaque URL-safe token.
func (c *Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Encode. An empty token yields a
// nil cursor, meaning "start from the newest record".
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed page token: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("malformed page token: %w", err)
	}
	return &c, nil
}
