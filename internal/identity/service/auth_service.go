// Package service implements staff login: email validation, region resolution from the email domain, and
// session issuance.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"central-lost-found/backend/internal/metrics"
	"central-lost-found/backend/internal/region"
	sessiondomain "central-lost-found/backend/internal/session/domain"
	"central-lost-found/backend/internal/session/store"
)

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrUnauthenticated = errors.New("missing or unknown session token")
)

var simpleEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthService issues and resolves sessions for staff emails.
type AuthService struct {
	resolver *region.Resolver
	sessions store.Store
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewAuthService returns an AuthService. m and log may be nil.
func NewAuthService(resolver *region.Resolver, sessions store.Store, m *metrics.Metrics, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{resolver: resolver, sessions: sessions, metrics: m, log: log}
}

// Login validates email, resolves its office, and issues a new session. Every call issues a distinct token.
func (s *AuthService) Login(ctx context.Context, email string) (*sessiondomain.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	identity := s.IdentityFor(email)
	sess, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	resolved := identity.Region != ""
	s.metrics.IncrementLogins(resolved)
	s.log.Info("login",
		zap.String("reporting_entity", identity.ReportingEntity),
		zap.Bool("region_resolved", resolved),
	)
	return sess, nil
}

// IdentityFor builds the reporting identity for email without issuing a session.
// Region and Locality are empty when the domain is not in the region table.
func (s *AuthService) IdentityFor(email string) sessiondomain.Identity {
	email = strings.TrimSpace(strings.ToLower(email))
	identity := sessiondomain.Identity{
		Email:           email,
		ReportingEntity: region.Domain(email),
	}
	if loc, ok := s.resolver.Resolve(email); ok {
		identity.Region = loc.Region
		identity.Locality = loc.Locality
	}
	return identity
}

// Authenticate returns the identity bound to token, or ErrUnauthenticated when the token is empty, unknown,
// or expired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*sessiondomain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	identity := sess.Identity
	return &identity, nil
}

// Logout expires token. Unknown tokens are not an error; an empty token is ErrUnauthenticated.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrUnauthenticated
	}
	return s.sessions.Expire(ctx, token)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	if !simpleEmail.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidEmail)
	}
	return nil
}
