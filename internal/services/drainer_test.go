package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/domain"
)

// queueOffline buys n potions offline and returns their keys in order
func queueOffline(t *testing.T, h *harness, n int) []string {
	t.Helper()
	h.offline(t)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, h.buy(t, 2, 1, 10).IdempotencyKey)
	}
	require.Equal(t, keys, keysOf(h.engine.Queue.PeekAll()))
	return keys
}

func TestDrainer_ReplaysInSubmissionOrder(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 3)
	require.Empty(t, h.client.sent)

	h.login(t)

	for i, key := range keys {
		require.Len(t, h.client.sent, i+1, "one replay at a time")
		req := h.client.answer(t, okResult(key, false))
		assert.Equal(t, key, req.IdempotencyKey)
		h.loop.RunPending()
	}

	assert.Equal(t, keys, h.client.sentKeys())
	assert.Equal(t, 0, h.engine.Queue.Len())
	assert.False(t, h.engine.Drainer.Draining())
	assert.Equal(t, []domain.QueueDrained{{Replayed: 3}}, h.events.drained)
	assert.Equal(t, 0, h.engine.Coordinator.Pending())
	assert.Equal(t, int64(70), h.engine.Player.State().Balance)
}

func TestDrainer_EmptyQueueReportsDrained(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	h.login(t)

	assert.Equal(t, []domain.QueueDrained{{Replayed: 0}}, h.events.drained)
	assert.False(t, h.engine.Drainer.Draining())
}

func TestDrainer_TransientFailureKeepsHeadOfLine(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 2)
	h.login(t)

	h.client.answer(t, statusResult(http.StatusBadGateway, ""))
	h.loop.RunPending()

	assert.Equal(t, keys, keysOf(h.engine.Queue.PeekAll()), "failed request goes back to the front")
	assert.True(t, h.engine.Drainer.Draining())
	assert.Len(t, h.client.sent, 1, "waits for the backoff")

	h.step(time.Second)

	require.Len(t, h.client.sent, 2)
	assert.Equal(t, keys[0], h.client.sent[1].IdempotencyKey)
}

func TestDrainer_TransportFailureBacksOff(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 1)
	h.login(t)

	for attempt := 1; attempt <= 3; attempt++ {
		require.Len(t, h.client.sent, attempt)
		h.client.answer(t, transportResult())
		h.loop.RunPending()
		assert.False(t, h.engine.Coordinator.Reachable())
		h.step(5 * time.Second)
	}

	for _, key := range h.client.sentKeys() {
		assert.Equal(t, keys[0], key)
	}
	rec, _ := h.engine.Coordinator.Record(keys[0])
	assert.Equal(t, domain.StatusPending, rec.Status)
}

func TestDrainer_AuthFailurePausesUntilLogin(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 2)
	h.login(t)

	h.client.answer(t, statusResult(http.StatusUnauthorized, `{"detail":"Token expired"}`))
	h.loop.RunPending()

	assert.False(t, h.engine.Drainer.Draining())
	assert.Equal(t, keys, keysOf(h.engine.Queue.PeekAll()))
	assert.True(t, h.engine.Session.IsUnauthenticated())

	h.step(time.Minute)
	assert.Len(t, h.client.sent, 1, "no replay without a credential")

	h.login(t)
	require.Len(t, h.client.sent, 2)
	assert.Equal(t, keys[0], h.client.sent[1].IdempotencyKey)
}

func TestDrainer_StopsWhenSessionLeavesAuthenticated(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 2)
	h.login(t)

	require.NoError(t, h.engine.Session.Logout(h.ctx))
	h.client.answer(t, okResult(keys[0], false))
	h.settle()

	rec, _ := h.engine.Coordinator.Record(keys[0])
	assert.Equal(t, domain.StatusCommitted, rec.Status, "the in-flight answer still reconciles")
	assert.Equal(t, []string{keys[1]}, keysOf(h.engine.Queue.PeekAll()))
	assert.Len(t, h.client.sent, 1)
	assert.False(t, h.engine.Drainer.Draining())
	assert.Empty(t, h.events.drained)
}

func TestDrainer_DrainIsSingleFlight(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	queueOffline(t, h, 2)
	h.login(t)

	h.engine.Drainer.Drain(h.ctx)
	h.engine.Drainer.Drain(h.ctx)

	assert.Len(t, h.client.sent, 1)
}

func TestDrainer_WatchdogAbandonsHungSend(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 1)
	h.login(t)
	require.Len(t, h.client.sent, 1)

	h.step(h.timings.StaleTimeout + time.Second)

	require.Len(t, h.client.sent, 2, "hung send is retried")
	assert.Equal(t, keys[0], h.client.sent[1].IdempotencyKey)

	// the hung call answers late: reconciled, but the drainer ignores it
	h.client.answer(t, okResult(keys[0], false))
	h.loop.RunPending()
	rec, _ := h.engine.Coordinator.Record(keys[0])
	assert.Equal(t, domain.StatusCommitted, rec.Status)
	assert.Len(t, h.client.sent, 2)

	h.client.answer(t, okResult(keys[0], true))
	h.loop.RunPending()
	assert.Equal(t, int64(90), h.engine.Player.State().Balance, "applied once")
	assert.Equal(t, []domain.QueueDrained{{Replayed: 1}}, h.events.drained)
}

func TestDrainer_StopDiscardsLateCompletion(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	keys := queueOffline(t, h, 2)
	h.login(t)

	h.engine.Drainer.Stop()
	h.client.answer(t, okResult(keys[0], false))
	h.step(time.Minute)

	rec, _ := h.engine.Coordinator.Record(keys[0])
	assert.Equal(t, domain.StatusCommitted, rec.Status)
	assert.Len(t, h.client.sent, 1)
	assert.Equal(t, []string{keys[1]}, keysOf(h.engine.Queue.PeekAll()))
}
