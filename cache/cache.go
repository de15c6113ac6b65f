// Package cache mirrors active sessions so in-progress games avoid repeated
// database round-trips. The cache is purely a latency optimization: the
// repository stays the source of truth, and every authority-bearing decision
// (session uniqueness, completion) is re-validated against it.
package cache

import (
	"context"
	"time"

	"realguess/catalog"
)

// Entry is the in-memory mirror of one active session.
type Entry struct {
	SessionID string        `json:"session_id"`
	GameID    string        `json:"game_id"`
	UserID    string        `json:"user_id"`
	StartTime time.Time     `json:"start_time"`
	Images    []catalog.Ref `json:"images"`
}

// SessionCache is keyed by (game id, user id). Get returns (nil, nil) on a
// miss; a miss is never an error condition for callers.
type SessionCache interface {
	Put(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, gameID, userID string) (*Entry, error)
	Drop(ctx context.Context, gameID, userID string) error
}
