package services

import (
	"fmt"

	"github.com/aggregion/dmp-registry/internal/repositories"
)

// Authenticator verifies that a caller may act as a claimed identity.
// It decouples authorization from any specific credential transport:
// the transport layer extracts the caller identity, the services check
// it against the identity each operation claims to act as.
type Authenticator interface {
	// Verify returns ErrForbidden when caller may not act as actor.
	Verify(caller, actor string) error
}

// SelfAuthenticator authorizes a caller to act only as itself.
// This matches the self-authorization trust model: every scoped
// mutation must be signed by the provider whose scope it touches.
type SelfAuthenticator struct{}

// NewSelfAuthenticator creates a new SelfAuthenticator
func NewSelfAuthenticator() *SelfAuthenticator {
	return &SelfAuthenticator{}
}

// Verify checks that the caller and the acting identity match.
func (a *SelfAuthenticator) Verify(caller, actor string) error {
	if caller == "" {
		return fmt.Errorf("caller identity is required: %w", repositories.ErrForbidden)
	}
	if caller != actor {
		return fmt.Errorf("caller %q may not act as %q: %w", caller, actor, repositories.ErrForbidden)
	}
	return nil
}
