package domain

import "time"

// Identity is who logged in and where their office is, as resolved at login.
// Region and Locality are empty when the email domain is not in the region table.
type Identity struct {
	Email           string `json:"email"`
	Region          string `json:"region,omitempty"`
	Locality        string `json:"locality,omitempty"`
	ReportingEntity string `json:"reporting_entity"`
}

// Session binds an opaque token to the Identity resolved at login.
type Session struct {
	Token     string     `json:"token"`
	Identity  Identity   `json:"identity"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil when the session never expires
}

// Expired reports whether the session has a deadline at or before now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
