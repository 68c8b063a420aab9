package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/metrics"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/aretw0/parley/pkg/session"
)

// fallbackAnswer is the last-resort reply when not even a decision is
// reachable to supply its own default.
const fallbackAnswer = "Sorry, I do not know how to handle that."

// Dispatcher orchestrates one inbound turn: it loads or creates the user's
// session, runs the current node's decision, follows forwarding hops
// synchronously, and persists the updated session either way.
type Dispatcher struct {
	sessions *session.Manager
	registry *registry.Registry
	graphs   *domain.GraphSet

	metrics    *metrics.Metrics
	logger     *slog.Logger
	hopTimeout time.Duration
	maxHops    int
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger configures the dispatcher's logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics configures the dispatcher's collectors.
func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithHopTimeout bounds each collaborator hop.
func WithHopTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.hopTimeout = timeout
	}
}

// WithMaxHops caps the hop chain of a single turn. The cap only trips on a
// miswired graph that loops.
func WithMaxHops(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxHops = n
	}
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(sessions *session.Manager, reg *registry.Registry, graphs *domain.GraphSet, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sessions:   sessions,
		registry:   reg,
		graphs:     graphs,
		metrics:    metrics.NewNop(),
		logger:     logging.NewNop(),
		hopTimeout: 10 * time.Second,
		maxHops:    8,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one inbound turn for a user and returns the outbound
// text: either a clarifying question or the final answer.
//
// Turns for the same user are serialized via the session manager; the hop
// chain is followed to completion within this call unless the decision
// suspends waiting for the user.
func (d *Dispatcher) Handle(ctx context.Context, userID, inbound string) (string, error) {
	if strings.TrimSpace(inbound) == "" {
		return "", domain.ErrEmptyQuery
	}

	logger := d.logger.With("turn_id", uuid.NewString(), "user_id", userID)

	var outbound string
	err := d.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		st, err := d.loadOrStart(ctx, userID)
		if err != nil {
			return err
		}

		st.Append(inbound)
		outbound = d.runExchange(ctx, st, logger)

		return d.sessions.Store().Save(ctx, userID, st)
	})
	if err != nil {
		return "", err
	}
	return outbound, nil
}

// loadOrStart fetches the session or lazily creates one on the modality's
// default graph. The caller already holds the user's lock.
func (d *Dispatcher) loadOrStart(ctx context.Context, userID string) (*domain.State, error) {
	st, err := d.sessions.Store().Load(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	graph, err := d.graphs.Default(domain.ModalityText)
	if err != nil {
		return nil, err
	}
	nodes := graph.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: graph %q has no nodes", domain.ErrNoRoute, graph.Name)
	}
	return domain.NewState(userID, graph.Name, nodes[0].ID), nil
}

// runExchange drives the decision state machine over the session until it
// suspends or finishes, following forwarding hops synchronously.
func (d *Dispatcher) runExchange(ctx context.Context, st *domain.State, logger *slog.Logger) string {
	graph, err := d.graphs.Graph(st.GraphName)
	if err != nil {
		return d.failTurn(st, nil, logger, err)
	}

	fromService := false
	tag := ""

	for hops := 0; ; hops++ {
		if hops > d.maxHops {
			err := fmt.Errorf("%w: hop budget exhausted in graph %q", domain.ErrNoRoute, st.GraphName)
			return d.failTurn(st, nil, logger, err)
		}

		node, err := graph.Node(st.CurrentNodeID)
		if err != nil {
			return d.failTurn(st, nil, logger, err)
		}
		entry, ok := d.registry.Lookup(node.ServiceName)
		if !ok || entry.Decision == nil {
			err := fmt.Errorf("%w: node %d service %q is not a decision node", domain.ErrNoRoute, node.ID, node.ServiceName)
			return d.failTurn(st, nil, logger, err)
		}
		dec := entry.Decision

		v := stepTurn(dec, &st.Decision, st.Latest(), tag, fromService)

		switch v.kind {
		case verdictAsk:
			// Suspend: no node transition, the next inbound text answers
			// this question.
			d.metrics.TurnsTotal.WithLabelValues("question").Inc()
			logger.Info("clarifying question", "node", node.ID)
			return v.text

		case verdictAnswer:
			st.Append(v.text)
			st.FinishExchange()
			d.metrics.TurnsTotal.WithLabelValues("answer").Inc()
			logger.Info("exchange finished", "node", node.ID)
			return v.text

		case verdictForward:
			st.Append(v.forward)

			target := dec.Collaborator()
			nextID, err := graph.NextNode(st.CurrentNodeID, target)
			if err != nil {
				return d.failTurn(st, dec, logger, err)
			}
			targetEntry, ok := d.registry.Lookup(target)
			if !ok || targetEntry.Client == nil {
				err := fmt.Errorf("%w: service %q has no client", domain.ErrNoRoute, target)
				return d.failTurn(st, dec, logger, err)
			}

			// The cursor only moves once the hop succeeds, so a failed hop
			// leaves the session parked on its decision node.
			reply, err := d.hop(ctx, targetEntry, st)
			if err != nil {
				// A failed or timed-out hop must not leave the session
				// stuck in awaiting_service.
				logger.Error("hop failed", "service", target, "err", err)
				return d.failTurn(st, dec, logger, err)
			}
			st.Append(reply)

			// Route the reply back to the decision that forwarded.
			backID, err := graph.NextNode(nextID, node.ServiceName)
			if err != nil {
				return d.failTurn(st, dec, logger, err)
			}
			st.CurrentNodeID = backID
			fromService = true
			tag = targetEntry.Service.Tag
		}
	}
}

// hop performs one bounded, blocking call to a collaborator service.
func (d *Dispatcher) hop(ctx context.Context, entry registry.Entry, st *domain.State) (string, error) {
	hctx, cancel := context.WithTimeout(ctx, d.hopTimeout)
	defer cancel()

	name := entry.Service.Name
	start := time.Now()
	reply, err := entry.Client.Infer(hctx, st.UserID, st.TurnText)
	d.metrics.HopsTotal.WithLabelValues(name).Inc()
	d.metrics.HopDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrDownstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
			d.metrics.HopTimeouts.Inc()
			return "", fmt.Errorf("%w: %s", domain.ErrDownstreamTimeout, name)
		}
		return "", err
	}
	return reply, nil
}

// failTurn recovers a broken turn: the decision state resets to done, the
// user gets the default answer, and the defect is logged. No error path may
// leave a session in a non-done, non-awaiting state.
func (d *Dispatcher) failTurn(st *domain.State, dec ports.Decision, logger *slog.Logger, err error) string {
	logger.Error("turn failed, answering with fallback", "err", err)
	d.metrics.TurnsTotal.WithLabelValues("error").Inc()

	answer := fallbackAnswer
	if dec != nil {
		answer = dec.DefaultAnswer()
	}
	st.Decision.Reset()
	st.Append(answer)
	st.FinishExchange()
	return answer
}
