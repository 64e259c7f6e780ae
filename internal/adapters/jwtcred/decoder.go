package jwtcred

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/ports"
)

// Claims is the claim set the backend signs into credential tokens
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Decoder reads claims without verifying the signature. The client never
// holds the signing secret; the server stays the authority on validity and
// answers 401 for bad tokens. Decoding only serves identity display and
// early expiry detection.
type Decoder struct {
	parser *jwt.Parser
}

// Verify interface compliance at compile time
var _ ports.CredentialDecoder = (*Decoder)(nil)

// NewDecoder creates a decoder
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode extracts identity and expiry from token
func (d *Decoder) Decode(token string) (domain.CredentialClaims, error) {
	if token == "" {
		return domain.CredentialClaims{}, domain.ErrEmptyCredential
	}

	var claims Claims
	if _, _, err := d.parser.ParseUnverified(token, &claims); err != nil {
		return domain.CredentialClaims{}, fmt.Errorf("%w: %v", domain.ErrMalformedCredential, err)
	}

	out := domain.CredentialClaims{
		DisplayName: claims.Name,
		Email:       claims.Email,
		Subject:     claims.Subject,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}
