package state

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

const defaultQueueSize = 64

// Middleware observes every event after the reducer has applied it.
// dispatch enqueues follow-up events and never blocks the store loop.
type Middleware func(ev Event, dispatch func(Event))

// Option configures a Store
type Option func(*Store)

// WithInitialState seeds the store, e.g. with a query term restored from flags
func WithInitialState(initial SearchState) Option {
	return func(s *Store) {
		s.state = initial
	}
}

// WithQueueSize sets the event queue capacity
func WithQueueSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Store is the state container. All mutations go through Dispatch and are
// applied in order by a single goroutine.
type Store struct {
	logger *slog.Logger

	mu         sync.RWMutex
	state      SearchState
	subs       map[int]chan SearchState
	nextSub    int
	middleware []Middleware

	queueSize int
	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a store and starts its dispatch loop
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		logger:    logger,
		state:     Initial(),
		subs:      make(map[int]chan SearchState),
		queueSize: defaultQueueSize,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan Event, s.queueSize)

	go s.run()
	return s
}

// Use registers middleware. Events dispatched before registration are not replayed.
func (s *Store) Use(mw Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middleware = append(s.middleware, mw)
}

// Dispatch enqueues an event. After Close it is a no-op.
// A RequestSearch without an id is assigned one.
func (s *Store) Dispatch(ev Event) {
	ev = tag(ev)
	select {
	case s.events <- ev:
	case <-s.quit:
		s.logger.Debug("store closed, dropping event", "event", ev.EventName())
	}
}

// State returns a snapshot of the current state
func (s *Store) State() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel that always holds the most recent state.
// Intermediate states may be skipped by slow readers. The channel is primed
// with the current state and closed by cancel or Close.
func (s *Store) Subscribe() (<-chan SearchState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan SearchState, 1)
	ch <- s.state

	select {
	case <-s.done:
		close(ch)
		return ch, func() {}
	default:
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// Close stops the dispatch loop and closes all subscriptions
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}

func (s *Store) run() {
	defer func() {
		s.mu.Lock()
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
		close(s.done)
	}()

	for {
		select {
		case ev := <-s.events:
			s.apply(ev)
		case <-s.quit:
			return
		}
	}
}

func (s *Store) apply(ev Event) {
	s.mu.Lock()
	next := Apply(s.state, ev)
	s.state = next
	for _, ch := range s.subs {
		publish(ch, next)
	}
	middleware := make([]Middleware, len(s.middleware))
	copy(middleware, s.middleware)
	s.mu.Unlock()

	s.logger.Debug("applied event",
		"event", ev.EventName(),
		"term", next.QueryTerm,
		"results", next.Results.Len(),
		"failed", next.Err != nil,
	)

	for _, mw := range middleware {
		s.runMiddleware(mw, ev)
	}
}

// publish replaces whatever the subscriber has not read yet with next.
// Only the loop goroutine sends, so the second send cannot block.
func publish(ch chan SearchState, next SearchState) {
	select {
	case ch <- next:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- next:
	default:
	}
}

func (s *Store) runMiddleware(mw Middleware, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("middleware panic", "event", ev.EventName(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	mw(ev, s.dispatchNonBlocking)
}

func (s *Store) dispatchNonBlocking(ev Event) {
	ev = tag(ev)
	select {
	case s.events <- ev:
	default:
		go s.Dispatch(ev)
	}
}

func tag(ev Event) Event {
	if req, ok := ev.(RequestSearch); ok && req.RequestID == "" {
		req.RequestID = uuid.NewString()
		return req
	}
	return ev
}
