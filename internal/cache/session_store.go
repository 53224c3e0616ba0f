package cache

import "context"

// SessionStore persists funnel session state as opaque JSON payloads, keyed
// by flow namespace plus session id. Load returns (nil, nil) when nothing is
// stored, so callers can initialize a fresh session.
type SessionStore interface {
	Load(ctx context.Context, namespace, sessionID string) ([]byte, error)
	Save(ctx context.Context, namespace, sessionID string, payload []byte) error
	Delete(ctx context.Context, namespace, sessionID string) error
}
