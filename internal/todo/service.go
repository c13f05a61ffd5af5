package todo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service implements the todo operations on top of a Repository.
//
// Input is validated before the repository is called, so a rejected
// request never changes stored state. After each successful write the
// service emits an Event to its notifier; delivery failures are logged
// and do not fail the operation.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   Logger
	now      func() time.Time
}

// NewService creates a Service backed by repo.
// notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// List returns every todo, most recently created first.
func (s *Service) List(ctx context.Context) ([]Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// Create validates in and stores a new todo.
func (s *Service) Create(ctx context.Context, in Input) (*Todo, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}
	s.emit(ctx, EventCreated, *t)
	return t, nil
}

// Get returns the todo with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapUnlessNotFound(err, "getting todo %d", id)
	}
	return t, nil
}

// Update replaces every mutable field of todo id.
// A missing id is ErrNotFound whatever the input; otherwise in is
// validated before anything is written.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Todo, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	t, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, wrapUnlessNotFound(err, "updating todo %d", id)
	}
	s.emit(ctx, EventUpdated, *t)
	return t, nil
}

// Delete removes todo id and returns its last values.
func (s *Service) Delete(ctx context.Context, id int64) (*Todo, error) {
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, wrapUnlessNotFound(err, "deleting todo %d", id)
	}
	s.emit(ctx, EventDeleted, *t)
	return t, nil
}

// Count returns the number of stored todos.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) emit(ctx context.Context, typ EventType, t Todo) {
	if s.notifier == nil {
		return
	}
	ev := Event{Type: typ, Todo: t, Timestamp: s.now().UTC()}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.Warn("todo event delivery failed", "type", typ, "id", t.ID, "error", err)
	}
}

func wrapUnlessNotFound(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
