// Package store holds session stores: a process-local map and a Redis-backed store shared across replicas.
package store

import (
	"context"

	"central-lost-found/backend/internal/session/domain"
)

// Store issues and resolves session tokens.
type Store interface {
	// Create issues a fresh token for identity and returns the stored session.
	Create(ctx context.Context, identity domain.Identity) (*domain.Session, error)
	// Lookup returns the session for token, or nil if it is unknown or expired.
	// It returns an error only for backend failures.
	Lookup(ctx context.Context, token string) (*domain.Session, error)
	// Expire removes token. Unknown tokens are not an error.
	Expire(ctx context.Context, token string) error
}
