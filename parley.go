package parley

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/metrics"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/config"
	"github.com/aretw0/parley/pkg/decision/lanekeep"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/aretw0/parley/pkg/rpc"
	"github.com/aretw0/parley/pkg/session"
)

// Orchestrator is the high-level entry point for the Parley library.
// It wires the session store, service registry, workflow graphs, and
// dispatcher, and exposes the front-door service contract.
type Orchestrator struct {
	dispatcher *runtime.Dispatcher
	sessions   *session.Manager
	registry   *registry.Registry
	graphs     *domain.GraphSet

	logger    *slog.Logger
	metrics   *metrics.Metrics
	store     ports.SessionStore
	locker    ports.DistributedLocker
	decisions map[string]ports.Decision
	clients   map[string]ports.ServiceClient
}

// Option defines a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithSessionStore injects a session store, bypassing the default in-memory one.
func WithSessionStore(store ports.SessionStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithLocker enables distributed session locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(o *Orchestrator) {
		o.locker = locker
	}
}

// WithDecision registers a decision strategy under a name referenced by the
// configuration. The lane keeping strategy is registered by default.
func WithDecision(name string, d ports.Decision) Option {
	return func(o *Orchestrator) {
		o.decisions[name] = d
	}
}

// WithClient overrides the client for a remote service, bypassing the
// default HTTP client built from the configured endpoint.
func WithClient(serviceName string, c ports.ServiceClient) Option {
	return func(o *Orchestrator) {
		o.clients[serviceName] = c
	}
}

// New builds an Orchestrator from configuration.
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		decisions: map[string]ports.Decision{
			"lanekeep": lanekeep.New(),
		},
		clients: make(map[string]ports.ServiceClient),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}

	graphs, err := cfg.GraphSet()
	if err != nil {
		return nil, err
	}
	o.graphs = graphs

	hopTimeout, err := cfg.HopTimeoutDuration()
	if err != nil {
		return nil, err
	}

	reg, err := o.buildRegistry(cfg, hopTimeout)
	if err != nil {
		return nil, err
	}
	o.registry = reg

	sessionOpts := []session.Option{session.WithLogger(o.logger)}
	if o.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(o.locker))
	}
	o.sessions = session.NewManager(o.store, sessionOpts...)

	o.dispatcher = runtime.NewDispatcher(o.sessions, o.registry, o.graphs,
		runtime.WithLogger(o.logger),
		runtime.WithMetrics(o.metrics),
		runtime.WithHopTimeout(hopTimeout),
	)
	return o, nil
}

func (o *Orchestrator) buildRegistry(cfg *config.Config, hopTimeout time.Duration) (*registry.Registry, error) {
	reg := registry.New()
	for _, spec := range cfg.Services {
		entry := registry.Entry{
			Service: domain.Service{
				Name:     spec.Name,
				Tag:      spec.Tag,
				Endpoint: spec.Endpoint,
				Modality: domain.Modality(spec.Modality),
			},
		}

		switch {
		case spec.Decision != "":
			dec, ok := o.decisions[spec.Decision]
			if !ok {
				return nil, fmt.Errorf("service %q references unknown decision %q", spec.Name, spec.Decision)
			}
			entry.Decision = dec
		case spec.Endpoint != "":
			if c, ok := o.clients[spec.Name]; ok {
				entry.Client = c
			} else {
				entry.Client = rpc.NewClient(spec.Endpoint, rpc.WithTimeout(hopTimeout))
			}
		default:
			if c, ok := o.clients[spec.Name]; ok {
				entry.Client = c
			} else {
				return nil, fmt.Errorf("service %q has neither decision nor endpoint", spec.Name)
			}
		}

		if err := reg.Register(entry); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handle processes one inbound turn and returns the outbound text.
func (o *Orchestrator) Handle(ctx context.Context, userID, inbound string) (string, error) {
	return o.dispatcher.Handle(ctx, userID, inbound)
}

// Create provisions caller resources on every remote collaborator,
// best-effort: a service that cannot provision is logged, not fatal.
func (o *Orchestrator) Create(ctx context.Context, userID string, spec []string) error {
	for _, name := range o.registry.Names() {
		entry, _ := o.registry.Lookup(name)
		if entry.Client == nil {
			continue
		}
		if err := entry.Client.Create(ctx, userID, spec); err != nil {
			o.logger.Warn("create failed on collaborator", "service", name, "user_id", userID, "err", err)
		}
	}
	return nil
}

// Learn ingests nothing at the orchestrator level.
func (o *Orchestrator) Learn(ctx context.Context, userID string, knowledge []string) error {
	return nil
}

// Infer is the front-door contract: the newest fragment of the query is the
// user's inbound text for this turn.
func (o *Orchestrator) Infer(ctx context.Context, userID string, query rpc.QuerySpec) (string, error) {
	turns := query.Text()
	if len(turns) == 0 {
		return "", domain.ErrEmptyQuery
	}
	return o.Handle(ctx, userID, turns[len(turns)-1])
}

// Sessions exposes the session manager for inspection tooling.
func (o *Orchestrator) Sessions() *session.Manager {
	return o.sessions
}

// Graphs exposes the loaded workflow templates.
func (o *Orchestrator) Graphs() *domain.GraphSet {
	return o.graphs
}
