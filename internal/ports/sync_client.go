package ports

import (
	"context"

	"github.com/renato0307/outpost/internal/domain"
)

// SyncClient performs the network call for one request. Send never blocks:
// done is invoked later on the engine loop with the result.
type SyncClient interface {
	Send(req domain.SyncRequest, done func(domain.SyncResult))
}

// CredentialSource supplies the current credential to the sync client
type CredentialSource interface {
	// Credential returns the token only while authenticated
	Credential() (string, bool)
}

// Authenticator exchanges user credentials for a token
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// CredentialDecoder reads claims out of a credential token
type CredentialDecoder interface {
	Decode(token string) (domain.CredentialClaims, error)
}
