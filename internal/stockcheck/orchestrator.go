package stockcheck

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/basket/internal/cart"
	"github.com/five82/basket/internal/shop"
	"github.com/five82/basket/internal/state"
)

const defaultCheckTimeout = 5 * time.Second

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeout bounds each remote stock check.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithContext sets the parent context for remote checks. Cancelling it makes
// outstanding checks resolve as failures.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.base = ctx
		}
	}
}

// Orchestrator turns AddToCartRequested actions into remote stock checks and
// dispatches the outcome. Only the most recent check per product may resolve;
// older ones are dropped when they complete.
type Orchestrator struct {
	stock   shop.StockService
	base    context.Context
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	latest map[cart.ProductID]uuid.UUID

	wg sync.WaitGroup
}

var _ state.Effect = (*Orchestrator)(nil)

// New builds an Orchestrator backed by stock.
func New(stock shop.StockService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		stock:   stock,
		base:    context.Background(),
		timeout: defaultCheckTimeout,
		logger:  zap.NewNop(),
		latest:  make(map[cart.ProductID]uuid.UUID),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle implements state.Effect. The reserved quantity is taken from
// snapshot, the state produced by the request's own dispatch.
func (o *Orchestrator) Handle(a cart.Action, snapshot cart.State, d state.Dispatcher) {
	req, ok := a.(cart.AddToCartRequested)
	if !ok {
		return
	}
	product := req.Product
	reserved := snapshot.Quantity(product.ID)
	checkID := uuid.New()

	o.mu.Lock()
	prev, superseding := o.latest[product.ID]
	o.latest[product.ID] = checkID
	o.mu.Unlock()

	fields := []zap.Field{
		zap.Int64("product_id", int64(product.ID)),
		zap.String("check_id", checkID.String()),
		zap.Int("reserved", reserved),
	}
	if superseding {
		fields = append(fields, zap.String("supersedes", prev.String()))
	}
	o.logger.Debug("stock check started", fields...)

	o.wg.Add(1)
	go o.check(product, reserved, checkID, d)
}

func (o *Orchestrator) check(product cart.Product, reserved int, checkID uuid.UUID, d state.Dispatcher) {
	defer o.wg.Done()

	ctx, cancel := context.WithTimeout(o.base, o.timeout)
	defer cancel()

	logger := o.logger.With(
		zap.Int64("product_id", int64(product.ID)),
		zap.String("check_id", checkID.String()),
	)

	var result cart.Action
	available, err := o.stock.GetAvailable(ctx, product.ID)
	switch {
	case err != nil:
		logger.Warn("stock check failed", zap.Error(err))
		result = cart.AddToCartFailed{ProductID: product.ID}
	case available > reserved:
		logger.Debug("stock confirmed", zap.Int("available", available), zap.Int("reserved", reserved))
		result = cart.AddToCartSucceeded{Product: product}
	default:
		logger.Info("insufficient stock", zap.Int("available", available), zap.Int("reserved", reserved))
		result = cart.AddToCartFailed{ProductID: product.ID}
	}

	d.DispatchIf(result, o.stillLatest(product.ID, checkID, logger))
}

// stillLatest returns a guard that admits the result only while checkID is
// the newest check for id, retiring it on success.
func (o *Orchestrator) stillLatest(id cart.ProductID, checkID uuid.UUID, logger *zap.Logger) state.Guard {
	return func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()

		if current, ok := o.latest[id]; !ok || current != checkID {
			logger.Debug("discarding superseded stock check")
			return false
		}
		delete(o.latest, id)
		return true
	}
}

// Pending reports whether a check for id is awaiting its result.
func (o *Orchestrator) Pending(id cart.ProductID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.latest[id]
	return ok
}

// InFlight returns the number of products with an unresolved check.
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.latest)
}

// Wait blocks until every launched check has returned from the stock service
// and handed its result to the store.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
