package domain

import "time"

// AuthMode is the authentication posture of the client
type AuthMode string

const (
	ModeAuthenticated   AuthMode = "authenticated"
	ModeOffline         AuthMode = "offline"
	ModeUnauthenticated AuthMode = "unauthenticated"
)

// Identity describes the signed-in user
type Identity struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Session is the persisted auth/connectivity posture.
//
// Invariant: ModeAuthenticated implies CredentialToken != nil.
// In ModeOffline the token is absent (a stale token is cleared, offline wins).
type Session struct {
	CredentialToken *string   `json:"credential_token,omitempty"`
	Identity        *Identity `json:"identity,omitempty"`
	IsStable        bool      `json:"-"`
	Mode            AuthMode  `json:"mode"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionStatus is the read-only snapshot handed to the UI. IsStable flips
// without an event when the stability window closes; readers poll for it.
type SessionStatus struct {
	DisplayName string
	IsStable    bool
	Mode        AuthMode
}

// NewUnauthenticatedSession returns the safe default session
func NewUnauthenticatedSession(now time.Time) Session {
	return Session{
		IsStable:  true,
		Mode:      ModeUnauthenticated,
		UpdatedAt: now,
	}
}

// HasCredential reports whether a non-empty token is present
func (s Session) HasCredential() bool {
	return s.CredentialToken != nil && *s.CredentialToken != ""
}

// Token returns the credential token or an empty string
func (s Session) Token() string {
	if s.CredentialToken == nil {
		return ""
	}
	return *s.CredentialToken
}

// Status returns the UI snapshot of the session
func (s Session) Status() SessionStatus {
	status := SessionStatus{
		IsStable: s.IsStable,
		Mode:     s.Mode,
	}
	if s.Identity != nil {
		status.DisplayName = s.Identity.DisplayName
		if status.DisplayName == "" {
			status.DisplayName = s.Identity.Email
		}
	}
	return status
}

// SameTransition reports whether other would leave the session in the same
// mode with the same credential. Used to drop repeated clicks while settling.
func (s Session) SameTransition(other Session) bool {
	return s.Mode == other.Mode && s.Token() == other.Token()
}

// Clone returns a deep copy
func (s Session) Clone() Session {
	out := s
	if s.CredentialToken != nil {
		token := *s.CredentialToken
		out.CredentialToken = &token
	}
	if s.Identity != nil {
		identity := *s.Identity
		out.Identity = &identity
	}
	return out
}

// CredentialClaims is what can be learned from a credential token without
// talking to the server
type CredentialClaims struct {
	DisplayName string
	Email       string
	ExpiresAt   *time.Time
	Subject     string
}

// Expired reports whether the claims carry an expiry at or before now
func (c CredentialClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Identity converts the claims into an Identity
func (c CredentialClaims) Identity() *Identity {
	if c.Email == "" && c.DisplayName == "" {
		return nil
	}
	return &Identity{
		DisplayName: c.DisplayName,
		Email:       c.Email,
	}
}
