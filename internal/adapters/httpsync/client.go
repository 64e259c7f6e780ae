package httpsync

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// Request metadata headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"
)

// Client is the HTTP sync client. Each Send runs the call on its own
// goroutine and posts the completion back to the engine loop.
type Client struct {
	cancel      context.CancelFunc
	credentials ports.CredentialSource
	ctx         context.Context
	http        *resty.Client
	scheduler   ports.Scheduler
	wg          sync.WaitGroup
}

// Verify interface compliance at compile time
var (
	_ ports.Authenticator = (*Client)(nil)
	_ ports.SyncClient    = (*Client)(nil)
)

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, timeout time.Duration, credentials ports.CredentialSource, scheduler ports.Scheduler) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		cancel:      cancel,
		credentials: credentials,
		ctx:         ctx,
		http:        httpClient,
		scheduler:   scheduler,
	}
}

// Send issues req in the background; done runs on the loop with the result.
// Must be called from the loop, since the credential is read here.
func (c *Client) Send(req domain.SyncRequest, done func(domain.SyncResult)) {
	token, hasToken := "", false
	if c.credentials != nil {
		token, hasToken = c.credentials.Credential()
	}

	logging.Logger.Debug("Sending request",
		"idempotency_key", req.IdempotencyKey,
		"method", req.Method,
		"path", req.Path,
		"with_credential", hasToken)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		result := c.do(req, token)
		c.scheduler.Post(func() { done(result) })
	}()
}

func (c *Client) do(req domain.SyncRequest, token string) domain.SyncResult {
	r := c.http.R().
		SetContext(c.ctx).
		SetHeader(HeaderRequestID, req.IdempotencyKey)
	if token != "" {
		r.SetAuthToken(token)
	}
	if len(req.Body) > 0 {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		logging.Logger.Warn("Request failed",
			"idempotency_key", req.IdempotencyKey,
			"path", req.Path,
			"error", err)
		return domain.SyncResult{TransportErr: err}
	}

	logging.Logger.Debug("Request completed",
		"idempotency_key", req.IdempotencyKey,
		"path", req.Path,
		"status", resp.StatusCode(),
		"duration", resp.Time())
	return domain.SyncResult{
		Body:       resp.Body(),
		HTTPStatus: resp.StatusCode(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a credential token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("failed to reach server: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		_, reason := domain.Classify(domain.SyncResult{Body: resp.Body(), HTTPStatus: resp.StatusCode()})
		return "", fmt.Errorf("%w: %s", domain.ErrLoginFailed, reason)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: server returned no token", domain.ErrLoginFailed)
	}
	return out.Token, nil
}

// Close aborts in-flight calls and waits for their goroutines to finish
func (c *Client) Close() error {
	c.cancel()
	c.wg.Wait()
	return nil
}

