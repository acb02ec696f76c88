package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cursorTTL bounds how long a continuation token stays resumable. A
// token past its TTL behaves like a stale one.
const cursorTTL = 15 * time.Minute

// ErrStaleCursor means a continuation token is unknown, expired, or was
// issued for a different query than the one it is being replayed with.
var ErrStaleCursor = errors.New("stale or mismatched cursor")

// cursorState is what an opaque continuation token points at: the
// fingerprint of the query that produced it and the row offset the next
// page starts from.
type cursorState struct {
	Fingerprint string `json:"fingerprint"`
	Offset      int    `json:"offset"`
}

func cursorKey(token string) string {
	return "cursor:" + token
}

// loadCursor resolves a token and checks it against the query
// fingerprint it is being used with.
func (s *CatalogStore) loadCursor(ctx context.Context, token, fingerprint string) (cursorState, error) {
	raw, err := s.redis.Get(ctx, cursorKey(token)).Result()
	if err == redis.Nil {
		return cursorState{}, ErrStaleCursor
	}
	if err != nil {
		return cursorState{}, fmt.Errorf("failed to load cursor: %w", err)
	}

	var state cursorState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return cursorState{}, fmt.Errorf("failed to decode cursor: %w", err)
	}
	if state.Fingerprint != fingerprint {
		return cursorState{}, ErrStaleCursor
	}
	return state, nil
}

// issueCursor stores the next page's state under a fresh opaque token.
func (s *CatalogStore) issueCursor(ctx context.Context, state cursorState) (string, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	token := uuid.New().String()
	if err := s.redis.Set(ctx, cursorKey(token), raw, cursorTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store cursor: %w", err)
	}
	return token, nil
}

// dropCursor discards a consumed token. Best effort; an orphaned token
// just waits out its TTL.
func (s *CatalogStore) dropCursor(ctx context.Context, token string) {
	s.redis.Del(ctx, cursorKey(token))
}
