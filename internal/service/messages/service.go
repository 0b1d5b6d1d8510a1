package messages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/internal/store"
	"uk.co.dudmesh.multisig/pkg/message"
)

type Config interface {
	store.Config
	Settings() model.Settings
}

type Option func(*service)

// WithStore uses an already opened backing store instead of opening one from
// the config. The service takes ownership and closes it.
func WithStore(s store.Store) Option {
	return func(svc *service) {
		svc.store = s
	}
}

func WithNow(now func() time.Time) Option {
	return func(svc *service) {
		svc.now = now
	}
}

// service owns the backing store. Every operation runs on a single goroutine
// in arrival order, which makes the multi-key updates of a submit or a sweep
// atomic to callers without store transactions.
type service struct {
	store    store.Store
	settings model.Settings
	now      func() time.Time

	requests  chan *request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type request struct {
	op   func()
	done chan struct{}
}

func New(config Config, opts ...Option) (*service, error) {
	s := &service{
		settings: config.Settings(),
		now:      time.Now,
		requests: make(chan *request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := validateSettings(s.settings); err != nil {
		if s.store != nil {
			s.store.Close()
		}
		return nil, err
	}

	if s.store == nil {
		backing, err := store.Open(config)
		if err != nil {
			return nil, fmt.Errorf("opening message store: %w", err)
		}
		s.store = backing
	}

	go s.run()
	return s, nil
}

func (s *service) run() {
	defer close(s.done)
	for {
		select {
		case r := <-s.requests:
			r.op()
			close(r.done)
		case <-s.quit:
			return
		}
	}
}

// do hands op to the service goroutine and waits for it to finish. ctx only
// bounds the wait: once accepted, op always runs to completion.
func (s *service) do(ctx context.Context, op func()) error {
	r := &request{op: op, done: make(chan struct{})}

	select {
	case s.requests <- r:
	case <-s.quit:
		return model.ErrorServiceClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for the running operation, stops the service and closes the
// backing store.
func (s *service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
		err = s.store.Close()
	})
	return err
}

func (s *service) Store(ctx context.Context, m *message.UserMessage) error {
	var err error
	if doErr := s.do(ctx, func() { err = s.insert(m) }); doErr != nil {
		return doErr
	}
	return err
}

func (s *service) Messages(ctx context.Context, address []byte) ([]*message.UserMessage, error) {
	var res []*message.UserMessage
	var err error
	if doErr := s.do(ctx, func() { res, err = s.retrieve(address) }); doErr != nil {
		return nil, doErr
	}
	return res, err
}

func (s *service) Sweep(ctx context.Context) (model.SweepResult, error) {
	var res model.SweepResult
	var err error
	if doErr := s.do(ctx, func() { res, err = s.sweep() }); doErr != nil {
		return model.SweepResult{}, doErr
	}
	return res, err
}

func (s *service) Purge(ctx context.Context) error {
	var err error
	if doErr := s.do(ctx, func() { err = s.purge() }); doErr != nil {
		return doErr
	}
	return err
}

// Reconfigure replaces the retention settings; the next sweep or submit
// uses them.
func (s *service) Reconfigure(ctx context.Context, settings model.Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}
	return s.do(ctx, func() {
		s.settings = settings
	})
}

func (s *service) Settings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	if err := s.do(ctx, func() { settings = s.settings }); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func (s *service) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	var err error
	if doErr := s.do(ctx, func() { stats, err = s.stats() }); doErr != nil {
		return model.Stats{}, doErr
	}
	return stats, err
}

func validateSettings(settings model.Settings) error {
	if settings.RetentionDuration <= 0 {
		return fmt.Errorf("%w: retention duration must be positive, got %s", model.ErrorInvalidInput, settings.RetentionDuration)
	}
	if settings.AcceptanceWindow < 0 {
		return fmt.Errorf("%w: acceptance window must not be negative, got %s", model.ErrorInvalidInput, settings.AcceptanceWindow)
	}
	return nil
}
