// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/pkg/types"
)

// ErrClosed is returned by Machine methods after Close.
var ErrClosed = errors.New("session closed")

// Transport performs the research request for a topic.
type Transport interface {
	Research(ctx context.Context, topic string) (*types.ResearchResult, error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for transitions and discarded responses.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithIDGenerator replaces the UUID generator used for submission IDs.
func WithIDGenerator(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

// Machine runs one research session. All state changes happen on a single
// loop goroutine in the order their events arrive. At most one request is
// in flight; a submit while loading is rejected with types.ErrBusy.
//
// Close tears the session down: the in-flight request's context is
// cancelled and any response that arrives afterwards is discarded.
type Machine struct {
	transport Transport
	logger    *zap.Logger
	newID     func() string

	ops      chan func()
	done     chan struct{}
	loopDone chan struct{}
	once     sync.Once
	inflight sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the loop goroutine.
	state   types.Session
	changed chan struct{}
}

// New starts an idle session backed by t.
func New(t Transport, opts ...Option) *Machine {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		transport: t,
		logger:    zap.NewNop(),
		newID:     func() string { return uuid.New().String() },
		ops:       make(chan func()),
		done:      make(chan struct{}),
		loopDone:  make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		state:     types.NewSession(),
		changed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.loop()
	return m
}

func (m *Machine) loop() {
	defer close(m.loopDone)
	for {
		select {
		case op := <-m.ops:
			op()
		case <-m.done:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish.
func (m *Machine) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case m.ops <- func() { fn(); close(finished) }:
	case <-m.done:
		return ErrClosed
	}
	<-finished
	return nil
}

// Submit starts a research request for topic. It returns the loading
// snapshot, or the unchanged snapshot with types.ErrEmptyTopic or
// types.ErrBusy when the submission is rejected.
func (m *Machine) Submit(topic string) (types.Session, error) {
	var snap types.Session
	var rejected error
	err := m.do(func() {
		if m.state.Status == types.StatusLoading {
			snap, rejected = m.state, types.ErrBusy
			return
		}
		next, ok := Transition(m.state, Submit{ID: m.newID(), Topic: topic})
		if !ok {
			snap, rejected = m.state, types.ErrEmptyTopic
			return
		}
		m.apply(next)
		snap = next
		m.dispatch(next.ID, next.Topic)
	})
	if err != nil {
		return types.Session{}, err
	}
	if rejected != nil {
		m.logger.Debug("submission rejected", zap.String("topic", topic), zap.Error(rejected))
	}
	return snap, rejected
}

// dispatch runs the transport call for submission id off the loop and posts
// its outcome back as an event.
func (m *Machine) dispatch(id, topic string) {
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()

		res, err := m.transport.Research(m.ctx, topic)
		var ev Event
		if err != nil {
			m.logger.Warn("research request failed",
				zap.String("submission", id), zap.String("topic", topic), zap.Error(err))
			ev = Failed{ID: id, Message: types.UserMessage(err)}
		} else {
			ev = Succeeded{ID: id, Result: res}
		}

		postErr := m.do(func() {
			next, ok := Transition(m.state, ev)
			if !ok {
				m.logger.Debug("ignoring stale response", zap.String("submission", id))
				return
			}
			m.apply(next)
		})
		if postErr != nil {
			m.logger.Debug("discarding response for closed session", zap.String("submission", id))
		}
	}()
}

func (m *Machine) apply(next types.Session) {
	m.logger.Info("session transition",
		zap.String("submission", next.ID),
		zap.String("from", string(m.state.Status)),
		zap.String("to", string(next.Status)))
	m.state = next
	close(m.changed)
	m.changed = make(chan struct{})
}

// Snapshot returns the current session state.
func (m *Machine) Snapshot() types.Session {
	var snap types.Session
	if err := m.do(func() { snap = m.state }); err != nil {
		<-m.loopDone
		return m.state
	}
	return snap
}

// Wait blocks until the session is not loading and returns that state.
func (m *Machine) Wait(ctx context.Context) (types.Session, error) {
	for {
		var snap types.Session
		var changed chan struct{}
		if err := m.do(func() { snap, changed = m.state, m.changed }); err != nil {
			return m.Snapshot(), err
		}
		if snap.Status != types.StatusLoading {
			return snap, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-m.done:
			return snap, ErrClosed
		}
	}
}

// Close tears the session down and waits for in-flight work to stop.
// It is safe to call more than once.
func (m *Machine) Close() {
	m.once.Do(func() {
		close(m.done)
		<-m.loopDone
		m.cancel()
		m.inflight.Wait()
	})
}
