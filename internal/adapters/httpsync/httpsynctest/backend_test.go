package httpsynctest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, b *Backend, method, path, key, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(headerRequestID, key)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, req)
	return w
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(DefaultCatalog))
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.StartingBalance)
	assert.Len(t, c.Items, 3)

	_, err = ParseCatalog([]byte("items:\n  - id: 0\n    name: bad\n"))
	assert.Error(t, err)
}

func TestBackend_Login(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")

	w := do(t, b, http.MethodPost, "/auth/login", "", "", `{"email":"ada@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	w = do(t, b, http.MethodPost, "/auth/login", "", "", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBackend_BuyIsIdempotent(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	token := b.IssueToken("ada@example.com", time.Hour)
	body := `{"item_id":1,"quantity":1,"settlement_id":1}`

	first := do(t, b, http.MethodPost, "/market/buy", "key-1", token, body)
	second := do(t, b, http.MethodPost, "/market/buy", "key-1", token, body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"ok":true,"order_id":"key-1","duplicate":false}`, first.Body.String())
	assert.JSONEq(t, `{"ok":true,"order_id":"key-1","duplicate":true}`, second.Body.String())
	assert.Equal(t, int64(50), b.Balance("ada@example.com"))
	assert.Equal(t, map[int]int{1: 1}, b.Inventory("ada@example.com"))
	assert.Equal(t, 1, b.Duplicates("key-1"))
}

func TestBackend_BuyRejections(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	token := b.IssueToken("ada@example.com", time.Hour)

	w := do(t, b, http.MethodPost, "/market/buy", "k1", token, `{"item_id":3,"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Insufficient funds"}`, w.Body.String())

	w = do(t, b, http.MethodPost, "/market/buy", "k2", token, `{"item_id":3,"quantity":2}`)
	assert.JSONEq(t, `{"detail":"Out of stock"}`, w.Body.String())

	w = do(t, b, http.MethodPost, "/market/buy", "", token, `{"item_id":1,"quantity":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.False(t, b.Committed("k1"))
}

func TestBackend_RequiresValidToken(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	body := `{"item_id":1,"quantity":1}`

	assert.Equal(t, http.StatusUnauthorized, do(t, b, http.MethodPost, "/market/buy", "k", "", body).Code)

	expired := b.IssueToken("ada@example.com", -time.Minute)
	w := do(t, b, http.MethodPost, "/market/buy", "k", expired, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Token expired"}`, w.Body.String())
}

func TestBackend_Characters(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	token := b.IssueToken("ada@example.com", time.Hour)

	w := do(t, b, http.MethodPost, "/characters", "char-1", token, `{"name":"Hero"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, b, http.MethodPatch, "/characters/char-1", "rename-1", token, `{"name":"Villain"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"char-1": "Villain"}, b.Characters("ada@example.com"))

	w = do(t, b, http.MethodPatch, "/characters/char-1", "rename-2", token, `{"name":"Al"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, b, http.MethodDelete, "/characters/nope", "del-0", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, b, http.MethodDelete, "/characters/char-1", "del-1", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, b.Characters("ada@example.com"))
}

func TestBackend_CharacterLimit(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	token := b.IssueToken("ada@example.com", time.Hour)

	for _, key := range []string{"c1", "c2", "c3", "c4", "c5"} {
		require.Equal(t, http.StatusCreated, do(t, b, http.MethodPost, "/characters", key, token, `{"name":"Name"}`).Code)
	}
	w := do(t, b, http.MethodPost, "/characters", "c6", token, `{"name":"Name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 5 characters")
}

func TestBackend_Faults(t *testing.T) {
	b := New(nil)
	b.AddUser("ada@example.com", "Ada", "secret")
	token := b.IssueToken("ada@example.com", time.Hour)
	body := `{"item_id":1,"quantity":1}`

	b.InjectFault(Fault{Status: http.StatusServiceUnavailable, Body: `{"detail":"down"}`})
	w := do(t, b, http.MethodPost, "/market/buy", "k1", token, body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, b.Committed("k1"))

	b.InjectFault(Fault{Status: http.StatusBadGateway, Commit: true})
	w = do(t, b, http.MethodPost, "/market/buy", "k1", token, body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, b.Committed("k1"), "lost ack still commits")

	w = do(t, b, http.MethodPost, "/market/buy", "k1", token, body)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
	assert.Equal(t, int64(50), b.Balance("ada@example.com"))
	assert.Len(t, b.Received(), 3)
}
