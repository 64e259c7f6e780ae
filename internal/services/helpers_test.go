package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/adapters/eventbus"
	"github.com/renato0307/outpost/internal/adapters/storage"
	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/loop"
	"github.com/renato0307/outpost/internal/ports"
	"github.com/renato0307/outpost/internal/testutil"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testToken = "token-1"

type call struct {
	done func(domain.SyncResult)
	req  domain.SyncRequest
}

// fakeClient records sends; the test answers them explicitly
type fakeClient struct {
	calls     []call
	scheduler ports.Scheduler
	sent      []domain.SyncRequest
}

func (f *fakeClient) Send(req domain.SyncRequest, done func(domain.SyncResult)) {
	f.sent = append(f.sent, req)
	f.calls = append(f.calls, call{done: done, req: req})
}

// answer completes the oldest outstanding call on the loop
func (f *fakeClient) answer(t *testing.T, result domain.SyncResult) domain.SyncRequest {
	t.Helper()
	require.NotEmpty(t, f.calls, "no outstanding call")
	c := f.calls[0]
	f.calls = f.calls[1:]
	f.scheduler.Post(func() { c.done(result) })
	return c.req
}

func (f *fakeClient) sentKeys() []string {
	keys := make([]string, 0, len(f.sent))
	for _, r := range f.sent {
		keys = append(keys, r.IdempotencyKey)
	}
	return keys
}

func okResult(key string, duplicate bool) domain.SyncResult {
	return domain.SyncResult{
		Body:       []byte(fmt.Sprintf(`{"ok":true,"order_id":%q,"duplicate":%t}`, key, duplicate)),
		HTTPStatus: http.StatusOK,
	}
}

func statusResult(status int, body string) domain.SyncResult {
	return domain.SyncResult{Body: []byte(body), HTTPStatus: status}
}

func transportResult() domain.SyncResult {
	return domain.SyncResult{TransportErr: fmt.Errorf("connection refused")}
}

// recorder collects published events
type recorder struct {
	authChanged  []domain.AuthChanged
	authRequired []domain.AuthRequired
	drained      []domain.QueueDrained
	settled      []domain.TransactionSettled
}

func (r *recorder) subscribe(t *testing.T, bus *eventbus.Bus) {
	t.Helper()
	_, err := bus.OnAuthChanged(func(e domain.AuthChanged) { r.authChanged = append(r.authChanged, e) })
	require.NoError(t, err)
	_, err = bus.OnAuthRequired(func(e domain.AuthRequired) { r.authRequired = append(r.authRequired, e) })
	require.NoError(t, err)
	_, err = bus.OnQueueDrained(func(e domain.QueueDrained) { r.drained = append(r.drained, e) })
	require.NoError(t, err)
	_, err = bus.OnTransactionSettled(func(e domain.TransactionSettled) { r.settled = append(r.settled, e) })
	require.NoError(t, err)
}

type harness struct {
	bus     *eventbus.Bus
	client  *fakeClient
	clock   *testutil.ManualClock
	ctx     context.Context
	engine  *Engine
	events  *recorder
	loop    *loop.Loop
	store   ports.DurableStore
	timings Timings
}

// newHarness wires an engine over store; nil store starts empty
func newHarness(t *testing.T, store ports.DurableStore) *harness {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	clock := testutil.NewManualClock(epoch)
	l := loop.New(clock)
	bus := eventbus.New(l)
	client := &fakeClient{scheduler: l}
	timings := DefaultTimings()

	h := &harness{
		bus:     bus,
		client:  client,
		clock:   clock,
		ctx:     context.Background(),
		events:  &recorder{},
		loop:    l,
		store:   store,
		timings: timings,
	}
	h.events.subscribe(t, bus)
	h.engine = NewEngine(EngineConfig{
		Events:          bus,
		NewClient:       func(ports.CredentialSource) ports.SyncClient { return client },
		Scheduler:       l,
		StartingBalance: 100,
		Store:           store,
		Subscriber:      bus,
		Timings:         timings,
	})
	t.Cleanup(h.engine.Stop)
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Start(h.ctx))
	h.settle()
}

// settle lets debounce and stability windows elapse
func (h *harness) settle() {
	testutil.Step(h.loop, h.clock, h.timings.Stability)
}

func (h *harness) step(d time.Duration) {
	testutil.Step(h.loop, h.clock, d)
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Session.SetCredential(h.ctx, testToken, &domain.Identity{
		DisplayName: "Ada",
		Email:       "ada@example.com",
	}))
	h.settle()
}

func (h *harness) offline(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Session.EnterOfflineMode(h.ctx))
	h.settle()
}

func (h *harness) buy(t *testing.T, itemID, qty int, price int64) domain.ExecuteResult {
	t.Helper()
	res, err := h.engine.Coordinator.Execute(h.ctx, domain.KindBuy, domain.Payload{
		ItemID:    itemID,
		Quantity:  qty,
		UnitPrice: price,
	})
	require.NoError(t, err)
	h.loop.RunPending()
	return res
}

// countingStore counts saves per record
type countingStore struct {
	ports.DurableStore
	saves map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{DurableStore: storage.NewMemoryStore(), saves: map[string]int{}}
}

func (s *countingStore) Save(ctx context.Context, key string, value []byte) error {
	s.saves[key]++
	return s.DurableStore.Save(ctx, key, value)
}

func keysOf(reqs []domain.QueuedRequest) []string {
	keys := make([]string, 0, len(reqs))
	for _, r := range reqs {
		keys = append(keys, r.IdempotencyKey)
	}
	return keys
}
