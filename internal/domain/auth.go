package domain

import "context"

// SubjectKind identifies how a caller was resolved from the request.
type SubjectKind int

const (
	// SubjectAnonymous is a caller with no usable credentials, identified
	// only by its source address.
	SubjectAnonymous SubjectKind = iota
	// SubjectUser is a caller with a verified bearer token.
	SubjectUser
	// SubjectMasterKey is a caller presenting the static master secret.
	// It bypasses rate limiting entirely.
	SubjectMasterKey
)

// Subject is the resolved caller identity used for access control and as
// the basis of rate-limit keys.
type Subject struct {
	Kind  SubjectKind
	ID    string // user id, or source IP for anonymous callers
	Email string
	Admin bool
}

func (s Subject) Authenticated() bool {
	return s.Kind == SubjectUser || s.Kind == SubjectMasterKey
}

func (s Subject) BypassesRateLimit() bool {
	return s.Kind == SubjectMasterKey
}

// RateLimitKey returns the quota-bucket identifier for this subject.
func (s Subject) RateLimitKey() string {
	if s.Kind == SubjectAnonymous {
		return "ip:" + s.ID
	}
	return "user:" + s.ID
}

// Authenticator verifies a bearer token and resolves it to a Subject.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Subject, error)
}
