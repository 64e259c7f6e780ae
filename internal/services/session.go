package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// SessionGate is what the transaction path needs from the session
type SessionGate interface {
	ForceUnauthenticated(ctx context.Context, reason string)
	IsAuthenticated() bool
	RequireAuthenticated(ctx context.Context) bool
}

// SessionManager owns the authentication state machine. It is the single
// writer of the session record and must only be used from the engine loop.
type SessionManager struct {
	decoder   ports.CredentialDecoder
	events    ports.EventPublisher
	scheduler ports.Scheduler
	store     ports.DurableStore
	timings   Timings

	debounce  ports.Timer
	session   domain.Session
	settling  bool
	stability ports.Timer
}

// Verify interface compliance at compile time
var (
	_ ports.CredentialSource = (*SessionManager)(nil)
	_ SessionGate            = (*SessionManager)(nil)
)

// NewSessionManager creates a manager in the unauthenticated state; call
// Restore to load the persisted session
func NewSessionManager(
	store ports.DurableStore,
	scheduler ports.Scheduler,
	events ports.EventPublisher,
	decoder ports.CredentialDecoder,
	timings Timings,
) *SessionManager {
	return &SessionManager{
		decoder:   decoder,
		events:    events,
		scheduler: scheduler,
		session:   domain.NewUnauthenticatedSession(scheduler.Now()),
		store:     store,
		timings:   timings,
	}
}

// Restore loads the persisted session and repairs it if inconsistent. The
// restored mode is announced through the usual debounced AuthChanged, so a
// restored valid credential starts a queue drain.
func (m *SessionManager) Restore(ctx context.Context) error {
	data, err := m.store.Load(ctx, ports.RecordSession)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		logging.Logger.Info("No persisted session, starting unauthenticated")
	case err != nil:
		return fmt.Errorf("failed to load session: %w", err)
	default:
		var s domain.Session
		if err := json.Unmarshal(data, &s); err != nil {
			logging.Logger.Warn("Persisted session is unreadable, resetting", "error", err)
		} else {
			s.IsStable = true
			m.session = s
		}
	}

	m.ValidateConsistency(ctx)
	logging.Logger.Info("Session restored", "mode", m.session.Mode)
	m.scheduleNotification()
	return nil
}

// SetCredential moves to Authenticated with token. When identity is nil it
// is read from the token claims.
func (m *SessionManager) SetCredential(ctx context.Context, token string, identity *domain.Identity) error {
	if token == "" {
		return domain.ErrEmptyCredential
	}
	if identity == nil && m.decoder != nil {
		claims, err := m.decoder.Decode(token)
		if err != nil {
			logging.Logger.Warn("Could not read identity from credential", "error", err)
		} else {
			identity = claims.Identity()
		}
	}

	return m.transition(ctx, domain.Session{
		CredentialToken: &token,
		Identity:        identity,
		Mode:            domain.ModeAuthenticated,
	}, "credential set")
}

// Logout moves to Unauthenticated and forgets the credential
func (m *SessionManager) Logout(ctx context.Context) error {
	return m.transition(ctx, domain.Session{Mode: domain.ModeUnauthenticated}, "logout")
}

// EnterOfflineMode moves to Offline. Any credential is dropped.
func (m *SessionManager) EnterOfflineMode(ctx context.Context) error {
	return m.transition(ctx, domain.Session{Mode: domain.ModeOffline}, "offline mode")
}

// ForceUnauthenticated resets the session after the server refused the
// credential and asks for a new login
func (m *SessionManager) ForceUnauthenticated(ctx context.Context, reason string) {
	if m.session.Mode == domain.ModeUnauthenticated && !m.session.HasCredential() {
		return
	}
	m.reset(ctx, reason)
	m.requestAuth(reason)
}

// RequireAuthenticated is the gate of every mutating action. Mutators apply
// synchronously on the loop, so there is never a half-applied transition to
// wait for here.
func (m *SessionManager) RequireAuthenticated(ctx context.Context) bool {
	if !m.ValidateConsistency(ctx) {
		m.requestAuth("session was inconsistent, please sign in again")
		return false
	}
	return m.session.Mode == domain.ModeAuthenticated || m.session.Mode == domain.ModeOffline
}

// ValidateConsistency checks the session invariants and repairs violations.
// Returns false when the session claimed authentication it could not back.
func (m *SessionManager) ValidateConsistency(ctx context.Context) bool {
	s := m.session
	switch s.Mode {
	case domain.ModeOffline:
		if s.CredentialToken != nil {
			logging.Logger.Warn("Offline session held a credential, clearing it")
			next := s.Clone()
			next.CredentialToken = nil
			m.force(ctx, next)
		}
		return true
	case domain.ModeAuthenticated:
		if !s.HasCredential() {
			logging.Logger.Warn("Authenticated session has no credential, resetting")
			m.reset(ctx, "missing credential")
			return false
		}
		if m.decoder != nil {
			if claims, err := m.decoder.Decode(s.Token()); err == nil && claims.Expired(m.scheduler.Now()) {
				logging.Logger.Warn("Credential expired, resetting", "expired_at", claims.ExpiresAt)
				m.reset(ctx, "credential expired")
				return false
			}
		}
		return true
	case domain.ModeUnauthenticated:
		if s.CredentialToken != nil {
			next := s.Clone()
			next.CredentialToken = nil
			m.force(ctx, next)
		}
		return true
	default:
		logging.Logger.Warn("Unknown session mode, resetting", "mode", s.Mode)
		m.reset(ctx, "unknown mode")
		return false
	}
}

// Credential returns the token while authenticated
func (m *SessionManager) Credential() (string, bool) {
	if m.session.Mode != domain.ModeAuthenticated || !m.session.HasCredential() {
		return "", false
	}
	return m.session.Token(), true
}

// IsAuthenticated reports mode == Authenticated
func (m *SessionManager) IsAuthenticated() bool {
	return m.session.Mode == domain.ModeAuthenticated
}

// IsOffline reports mode == Offline
func (m *SessionManager) IsOffline() bool {
	return m.session.Mode == domain.ModeOffline
}

// IsUnauthenticated reports mode == Unauthenticated
func (m *SessionManager) IsUnauthenticated() bool {
	return m.session.Mode == domain.ModeUnauthenticated
}

// Status returns the UI snapshot
func (m *SessionManager) Status() domain.SessionStatus {
	return m.session.Status()
}

// Snapshot returns a copy of the full session
func (m *SessionManager) Snapshot() domain.Session {
	return m.session.Clone()
}

// Stop cancels pending timers
func (m *SessionManager) Stop() {
	if m.debounce != nil {
		m.debounce.Stop()
	}
	if m.stability != nil {
		m.stability.Stop()
	}
}

// transition applies a user-initiated change. While a previous change is
// settling, an identical repeat (double click) is dropped.
func (m *SessionManager) transition(ctx context.Context, next domain.Session, reason string) error {
	if m.settling && m.session.SameTransition(next) {
		logging.Logger.Debug("Ignoring repeated transition while settling", "mode", next.Mode, "reason", reason)
		return nil
	}

	next.UpdatedAt = m.scheduler.Now()
	next.IsStable = false
	if err := m.persist(ctx, next); err != nil {
		return err
	}

	logging.Logger.Info("Session transition",
		"from", m.session.Mode,
		"to", next.Mode,
		"reason", reason)
	m.session = next
	m.settle()
	return nil
}

// reset forces Unauthenticated. Safety wins over durability: the memory
// state moves even if persisting fails.
func (m *SessionManager) reset(ctx context.Context, reason string) {
	logging.Logger.Info("Session reset", "from", m.session.Mode, "reason", reason)
	next := domain.NewUnauthenticatedSession(m.scheduler.Now())
	next.IsStable = false
	m.force(ctx, next)
	m.settle()
}

func (m *SessionManager) force(ctx context.Context, next domain.Session) {
	if err := m.persist(ctx, next); err != nil {
		logging.Logger.Error("Failed to persist repaired session", "error", err)
	}
	m.session = next
}

// settle marks the session unstable, re-arms the stability window (which
// also releases the settling lock) and schedules the notification
func (m *SessionManager) settle() {
	m.settling = true
	m.session.IsStable = false
	if m.stability != nil {
		m.stability.Stop()
	}
	m.stability = m.scheduler.AfterFunc(m.timings.Stability, func() {
		m.session.IsStable = true
		m.settling = false
		logging.Logger.Debug("Session settled", "mode", m.session.Mode)
	})
	m.scheduleNotification()
}

func (m *SessionManager) scheduleNotification() {
	if m.debounce != nil {
		m.debounce.Stop()
	}
	m.debounce = m.scheduler.AfterFunc(m.timings.Debounce, func() {
		status := m.session.Status()
		logging.Logger.Info("Auth changed", "mode", status.Mode)
		m.events.PublishAuthChanged(domain.AuthChanged{
			DisplayName: status.DisplayName,
			Mode:        status.Mode,
		})
	})
}

func (m *SessionManager) requestAuth(reason string) {
	logging.Logger.Info("Authentication required", "reason", reason)
	m.events.PublishAuthRequired(domain.AuthRequired{Reason: reason})
}

func (m *SessionManager) persist(ctx context.Context, s domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Save(ctx, ports.RecordSession, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
