package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	worker "github.com/aretw0/parley/internal/lanekeep"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	lkdecision "github.com/aretw0/parley/pkg/decision/lanekeep"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/aretw0/parley/pkg/rpc"
	"github.com/aretw0/parley/pkg/session"
)

// workerClient runs the lane keeping worker in-process, recording every
// infer call, so exchanges exercise the real command handling end to end.
type workerClient struct {
	handler *worker.Handler
	calls   [][]string
	err     error
}

func newWorkerClient() *workerClient {
	return &workerClient{handler: worker.NewHandler(worker.NewMemoryStore())}
}

func (c *workerClient) Create(ctx context.Context, userID string, spec []string) error { return nil }
func (c *workerClient) Learn(ctx context.Context, userID string, knowledge []string) error {
	return nil
}

func (c *workerClient) Infer(ctx context.Context, userID string, turns []string) (string, error) {
	c.calls = append(c.calls, append([]string(nil), turns...))
	if c.err != nil {
		return "", c.err
	}
	return c.handler.Infer(ctx, userID, rpc.NewTextQuery(turns))
}

type harness struct {
	dispatcher *runtime.Dispatcher
	store      *memory.Store
	client     *workerClient
}

func newHarness(t *testing.T, opts ...runtime.DispatcherOption) *harness {
	t.Helper()

	graph, err := domain.NewGraph("class_lk_dcm", []domain.Node{
		{ID: 0, ServiceName: "lanekeep_dcm", Successors: []int{0, 1}},
		{ID: 1, ServiceName: "lk", Successors: []int{0}},
	})
	require.NoError(t, err)
	graphs, err := domain.NewGraphSet([]*domain.Graph{graph}, map[domain.Modality]string{
		domain.ModalityText: "class_lk_dcm",
	})
	require.NoError(t, err)

	client := newWorkerClient()
	reg := registry.New()
	require.NoError(t, reg.Register(registry.Entry{
		Service:  domain.Service{Name: "lanekeep_dcm", Modality: domain.ModalityText},
		Decision: lkdecision.New(),
	}))
	require.NoError(t, reg.Register(registry.Entry{
		Service: domain.Service{Name: "lk", Tag: "LK", Modality: domain.ModalityText},
		Client:  client,
	}))

	store := memory.NewStore()
	mgr := session.NewManager(store)
	return &harness{
		dispatcher: runtime.NewDispatcher(mgr, reg, graphs, opts...),
		store:      store,
		client:     client,
	}
}

func TestDispatcher_CommandExchange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	answer, err := h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
	require.NoError(t, err)
	assert.Equal(t, "Okay, your lane keeping system in now on.", answer)

	// One hop, carrying the resolved command as the newest fragment.
	require.Len(t, h.client.calls, 1)
	sent := h.client.calls[0]
	assert.Equal(t, "power on", sent[len(sent)-1])
	assert.Equal(t, "turn on lane keeping", sent[0])

	// The exchange terminated cleanly.
	st, err := h.store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, st.Decision.Status)
	assert.Empty(t, st.Decision.Label)
	assert.Empty(t, st.Decision.Slots)
	assert.Equal(t, len(st.TurnText), st.ExchangeStart)
	assert.Equal(t, 0, st.CurrentNodeID, "cursor returns to the decision node")
}

func TestDispatcher_InfoExchange(t *testing.T) {
	h := newHarness(t)

	answer, err := h.dispatcher.Handle(context.Background(), "alice", "why does my wheel vibrate")
	require.NoError(t, err)
	assert.Equal(t, "Vibration insenity is a setting for the aid mode. There are three levels: Low, Normal, High.", answer)

	// Informational answers never hop.
	assert.Empty(t, h.client.calls)
}

func TestDispatcher_ClarifyingQuestion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	question, err := h.dispatcher.Handle(ctx, "alice", "why are there no lanes on my display")
	require.NoError(t, err)
	assert.Equal(t, "No lanes mean your lane keeping system is off. Would you like me to turn it on?", question)

	// Suspended: the session waits on the user, cursor parked.
	st, err := h.store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingUser, st.Decision.Status)
	assert.Equal(t, 0, st.CurrentNodeID)
	assert.Empty(t, h.client.calls)

	// The bare confirmation resolves against the question's seeded slots.
	answer, err := h.dispatcher.Handle(ctx, "alice", "yes")
	require.NoError(t, err)
	assert.Equal(t, "Okay, your lane keeping system in now on.", answer)

	require.Len(t, h.client.calls, 1)
	sent := h.client.calls[0]
	assert.Equal(t, "power on", sent[len(sent)-1])

	st, err = h.store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, st.Decision.Status)
}

func TestDispatcher_QuestionDeclined(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.dispatcher.Handle(ctx, "alice", "why are there no lanes on my display")
	require.NoError(t, err)

	answer, err := h.dispatcher.Handle(ctx, "alice", "no thanks")
	require.NoError(t, err)
	assert.Equal(t, "Okay, I will leave your system the way it is.", answer)
	assert.Empty(t, h.client.calls, "a declined question must not reach the worker")
}

func TestDispatcher_UnresolvableCommand(t *testing.T) {
	h := newHarness(t)

	answer, err := h.dispatcher.Handle(context.Background(), "alice", "qwerty")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I do not know how to handle that.", answer)
}

func TestDispatcher_EmptyInbound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, inbound := range []string{"", "   ", "\t\n"} {
		_, err := h.dispatcher.Handle(ctx, "alice", inbound)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	}

	// No session may be created or mutated by an unusable turn.
	_, err := h.store.Load(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDispatcher_HopFailureRecovers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.client.err = errors.New("connection refused")

	answer, err := h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I do not know how to handle that.", answer)

	// The session must not be stranded mid-exchange.
	st, err := h.store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, st.Decision.Status)
	assert.Equal(t, 0, st.CurrentNodeID)

	// And the next turn works once the worker is back.
	h.client.err = nil
	answer, err = h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
	require.NoError(t, err)
	assert.Equal(t, "Okay, your lane keeping system in now on.", answer)
}

func TestDispatcher_HopTimeout(t *testing.T) {
	h := newHarness(t, runtime.WithHopTimeout(50*time.Millisecond))
	ctx := context.Background()

	h.client.err = domain.ErrDownstreamTimeout

	answer, err := h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I do not know how to handle that.", answer)

	st, err := h.store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, st.Decision.Status)
}

func TestDispatcher_RepeatedCommandIsStable(t *testing.T) {
	// Identical inbound fragments re-derive the same forward every time;
	// nothing accumulates across exchanges.
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		answer, err := h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
		require.NoError(t, err)
		assert.Equal(t, "Okay, your lane keeping system in now on.", answer)
	}

	require.Len(t, h.client.calls, 3)
	for _, sent := range h.client.calls {
		assert.Equal(t, "power on", sent[len(sent)-1])
	}
}

func TestDispatcher_VibrationClampThroughPipeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	answer, err := h.dispatcher.Handle(ctx, "alice", "please increase the vibration")
	require.NoError(t, err)
	assert.Equal(t, "Okay, your vibration intensity is now set to High", answer)

	answer, err = h.dispatcher.Handle(ctx, "alice", "please increase the vibration")
	require.NoError(t, err)
	assert.Equal(t, "Sorry but your vibration intesity is already at its maximum level.", answer)

	// The failed increment left the stored level alone.
	answer, err = h.dispatcher.Handle(ctx, "alice", "what is my vibration set to")
	require.NoError(t, err)
	assert.Equal(t, "Currently, your vibration intensity level is High.", answer)
}

func TestDispatcher_SessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.dispatcher.Handle(ctx, "alice", "turn on lane keeping")
	require.NoError(t, err)

	answer, err := h.dispatcher.Handle(ctx, "bob", "is my lane keeping on")
	require.NoError(t, err)
	assert.Equal(t, "Currently, your lane keeping system is off.", answer)
}
