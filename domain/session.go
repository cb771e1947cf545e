package domain

import "time"

// Session represents the authenticated identity and its opaque token.
// Stored in Redis; required for assignment mutations, optional elsewhere.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// DisplayName falls back to "guest" so read-only surfaces never need a session.
func (s *Session) DisplayName() string {
	if s == nil || (s.Name == "" && s.Email == "") {
		return "guest"
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}
