package domain

import (
	"context"
	"time"
)

// Session is an authenticated session with the remote publisher.
type Session struct {
	Handle     string
	DID        string
	AccessJWT  string
	RefreshJWT string
}

// Receipt identifies a record created on the remote publisher.
type Receipt struct {
	URI       string
	CID       string
	CreatedAt time.Time
}

// Publisher wraps the remote social API the scheduler posts through.
// Both calls are fallible and potentially slow; callers bound them with a
// context deadline. The scheduler makes a single attempt per request and
// never retries.
type Publisher interface {
	CreateSession(ctx context.Context, identifier, password string) (*Session, error)
	PublishPost(ctx context.Context, session *Session, text string) (*Receipt, error)
}
