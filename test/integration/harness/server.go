package harness

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/renato0307/outpost/internal/adapters/httpsync/httpsynctest"
)

// Default account registered on every GameServer
const (
	TestEmail    = "ada@example.com"
	TestName     = "Ada"
	TestPassword = "correct horse"
)

// GameServer is a fake game server running for the duration of a test.
type GameServer struct {
	*httpsynctest.Backend
	URL string
}

// StartGameServer starts the fake server with the default catalog and
// account. It is closed when the test completes.
func StartGameServer(tb testing.TB) *GameServer {
	tb.Helper()

	backend := httpsynctest.New(nil)
	backend.AddUser(TestEmail, TestName, TestPassword)

	srv := httptest.NewServer(backend.Handler())
	tb.Cleanup(srv.Close)

	return &GameServer{Backend: backend, URL: srv.URL}
}

// Token issues a credential for the default account.
func (s *GameServer) Token(ttl time.Duration) string {
	return s.IssueToken(TestEmail, ttl)
}
