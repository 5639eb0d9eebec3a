package sessions

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session id is unknown, already revoked, or
// expired. Callers surface a single generic message for all three cases so the
// response does not leak whether a session ever existed.
var ErrNotFound = errors.New("session not found")

// Store persists refresh sessions. Entries self-expire at the store level; no
// background sweep runs, and validation never extends the TTL.
type Store interface {
	// Create issues a new unguessable session id for the user and stores the
	// record with the configured TTL.
	Create(ctx context.Context, userID, username, deviceInfo string) (string, error)
	// Validate returns the session and stamps lastUsedAt (observability only;
	// the TTL is fixed at creation). Returns ErrNotFound for unknown ids.
	Validate(ctx context.Context, id string) (*RefreshSession, error)
	// Revoke deletes the session if present and reports whether it existed.
	// Idempotent: a second call returns false without error.
	Revoke(ctx context.Context, id string) (bool, error)
	// RevokeAll deletes every session owned by userID and returns a best-effort
	// count of removed entries. Not transactional across entries.
	RevokeAll(ctx context.Context, userID string) (int, error)
	// ListActive enumerates the user's live sessions.
	ListActive(ctx context.Context, userID string) ([]RefreshSession, error)
}

// Rotator is an optional store capability: a single conditional
// delete-and-create that retires oldID and issues a replacement in one atomic
// step, so two refresh calls racing on the same id cannot both succeed.
type Rotator interface {
	Rotate(ctx context.Context, oldID, deviceInfo string) (*RefreshSession, string, error)
}
