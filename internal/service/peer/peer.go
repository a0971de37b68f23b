package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/pulse-sentry/internal/logger"
	"github.com/oshokin/pulse-sentry/internal/repository/kv"
	"github.com/oshokin/pulse-sentry/internal/service/router"
	"github.com/oshokin/pulse-sentry/internal/service/sentry"
	"github.com/oshokin/pulse-sentry/internal/service/timer"
)

// StatusOK is the status of every successful result record.
const StatusOK = "ok"

var (
	// ErrUnknownCommand is returned when the router does not recognize the input.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownFeature is returned for feature names no component handles.
	ErrUnknownFeature = errors.New("unknown feature")
)

// Result is the record emitted for every successful operation.
type Result struct {
	Op      string `json:"op"`
	Status  string `json:"status"`
	Payload any    `json:"payload"`
}

// Feature applies generic key/value entries for one named feature.
type Feature interface {
	Name() string
	Apply(ctx context.Context, entry map[string]any) error
}

// Peer serializes transactions against a keyed store.
type Peer struct {
	// mu makes the peer a single writer.
	mu       sync.Mutex
	store    kv.Store
	machine  *sentry.Machine
	features map[string]Feature
}

// New creates a peer over store with the timer feature registered.
func New(store kv.Store) *Peer {
	clock := timer.NewClock(store)

	p := &Peer{
		store:    store,
		machine:  sentry.New(store, clock),
		features: make(map[string]Feature),
	}

	p.RegisterFeature(timer.NewFeature(clock))

	return p
}

// RegisterFeature adds or replaces a feature.
func (p *Peer) RegisterFeature(f Feature) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.features[f.Name()] = f
}

// Execute routes and runs one transaction on behalf of sender.
// A failed operation writes nothing, so only successful ones are confirmed.
func (p *Peer) Execute(ctx context.Context, sender, command string) (*Result, error) {
	route, ok := router.Map(command)
	if !ok {
		return nil, ErrUnknownCommand
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx = logger.WithKV(ctx, "op", route.Kind.Op(), "sender", sender)

	payload, err := p.dispatch(ctx, route, sentry.Tx{Sender: sender, Value: route.Value})
	if err != nil {
		logger.WarnKV(ctx, "Transaction rejected", "error", err)

		return nil, err
	}

	if !route.Kind.IsQuery() {
		if err = p.store.Confirm(ctx); err != nil {
			return nil, fmt.Errorf("confirm transaction: %w", err)
		}
	}

	result := &Result{
		Op:      route.Kind.Op(),
		Status:  StatusOK,
		Payload: payload,
	}

	logger.DebugKV(ctx, "Transaction applied", "result", result)

	return result, nil
}

// dispatch calls the machine operation selected by the route.
func (p *Peer) dispatch(ctx context.Context, route router.Route, tx sentry.Tx) (any, error) {
	switch route.Kind {
	case router.KindRaise:
		return p.machine.Raise(ctx, tx)
	case router.KindAck:
		return p.machine.Ack(ctx, tx)
	case router.KindResolve:
		return p.machine.Resolve(ctx, tx)
	case router.KindReadAlert:
		return p.machine.ReadAlert(ctx, tx)
	case router.KindListAlerts:
		return p.machine.ListAlerts(ctx, tx)
	case router.KindListAlertsByStatus:
		return p.machine.ListAlertsByStatus(ctx, tx)
	case router.KindReadSnapshot:
		return p.machine.ReadSnapshot(ctx)
	case router.KindReadTimer:
		return p.machine.ReadTimer(ctx)
	default:
		return nil, ErrUnknownCommand
	}
}

// ApplyFeature runs a feature entry as its own transaction.
func (p *Peer) ApplyFeature(ctx context.Context, name string, entry map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	feature, ok := p.features[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}

	if err := feature.Apply(logger.WithKV(ctx, "feature", name), entry); err != nil {
		return err
	}

	if err := p.store.Confirm(ctx); err != nil {
		return fmt.Errorf("confirm feature entry: %w", err)
	}

	return nil
}

// GetKey reads a raw store value. Confirmed reads only observe committed
// transactions. A missing key returns nil without error.
func (p *Peer) GetKey(ctx context.Context, key string, confirmed bool) ([]byte, error) {
	var (
		value []byte
		err   error
	)

	if confirmed {
		value, err = p.store.GetConfirmed(ctx, key)
	} else {
		value, err = p.store.Get(ctx, key)
	}

	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return value, nil
}
