package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/five82/basket/internal/cart"
)

// Guard decides, at the moment a queued action reaches the front of the
// dispatch loop, whether it should still be applied.
type Guard func() bool

// Dispatcher accepts actions for a store.
type Dispatcher interface {
	Dispatch(a cart.Action)
	DispatchIf(a cart.Action, guard Guard)
}

// Effect observes every applied action after subscribers have been notified.
// Handle runs inside the dispatch loop and must not block; long work belongs
// on a goroutine that reports back through d.
type Effect interface {
	Handle(a cart.Action, snapshot cart.State, d Dispatcher)
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(a cart.Action, snapshot cart.State, d Dispatcher)

// Handle implements Effect.
func (f EffectFunc) Handle(a cart.Action, snapshot cart.State, d Dispatcher) {
	f(a, snapshot, d)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEffects registers effects in the order given.
func WithEffects(effects ...Effect) Option {
	return func(s *Store) {
		s.effects = append(s.effects, effects...)
	}
}

// WithInitialState starts the store from st instead of an empty cart.
func WithInitialState(st cart.State) Option {
	return func(s *Store) {
		s.state = st
	}
}

type pending struct {
	action cart.Action
	guard  Guard
}

type subscription struct {
	id int
	fn func(cart.State)
}

// Store owns the current cart state. All actions pass through a single FIFO
// drained by one goroutine at a time, so transitions, subscriber calls and
// effect hand-offs never interleave.
type Store struct {
	logger *zap.Logger

	mu       sync.Mutex
	state    cart.State
	queue    []pending
	draining bool
	subs     []subscription
	nextSub  int
	effects  []Effect
}

var _ Dispatcher = (*Store)(nil)

// New builds a store holding an empty cart.
func New(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		state:  cart.NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use registers an additional effect.
func (s *Store) Use(e Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, e)
}

// State returns the current cart snapshot.
func (s *Store) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every applied
// action. The returned function removes the subscription; calling it more
// than once is harmless.
func (s *Store) Subscribe(fn func(cart.State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch applies a. When the store is idle the action is fully applied,
// subscribers notified and effects run before Dispatch returns. When another
// dispatch is in progress (a subscriber or effect dispatching, or a
// concurrent caller) the action is queued and the active dispatcher applies
// it before returning.
func (s *Store) Dispatch(a cart.Action) {
	s.DispatchIf(a, nil)
}

// DispatchIf is Dispatch with a guard evaluated right before the transition.
// When the guard returns false the action is dropped: no transition, no
// notification, no effects.
func (s *Store) DispatchIf(a cart.Action, guard Guard) {
	s.mu.Lock()
	s.queue = append(s.queue, pending{action: a, guard: guard})
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.queue = nil
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = pending{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.apply(next)
	}
}

func (s *Store) apply(p pending) {
	if p.action == nil {
		return
	}
	if p.guard != nil && !p.guard() {
		s.logger.Debug("dropped guarded action", zap.String("action", string(p.action.Type())))
		return
	}

	s.mu.Lock()
	s.state = cart.Reduce(s.state, p.action)
	snapshot := s.state
	subs := make([]func(cart.State), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	effects := append([]Effect(nil), s.effects...)
	s.mu.Unlock()

	s.logger.Debug("applied action",
		zap.String("action", string(p.action.Type())),
		zap.Int("items", snapshot.Len()),
		zap.Int("failed_checks", len(snapshot.FailedStockChecks())),
	)

	for _, fn := range subs {
		fn(snapshot)
	}
	for _, e := range effects {
		e.Handle(p.action, snapshot, s)
	}
}
