package todo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// recordingNotifier captures delivered events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) types() []EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]EventType, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Type
	}
	return out
}

// failingRepo returns errStore from every operation.
type failingRepo struct{}

var errStore = errors.New("disk I/O error")

func (failingRepo) List(context.Context) ([]Todo, error)                { return nil, errStore }
func (failingRepo) Create(context.Context, Input) (*Todo, error)        { return nil, errStore }
func (failingRepo) Get(context.Context, int64) (*Todo, error)           { return nil, errStore }
func (failingRepo) Update(context.Context, int64, Input) (*Todo, error) { return nil, errStore }
func (failingRepo) Delete(context.Context, int64) (*Todo, error)        { return nil, errStore }
func (failingRepo) Count(context.Context) (int, error)                  { return 0, errStore }

func setupTestService(t *testing.T) (*Service, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewService(setupTestRepo(t), n), n
}

func TestService_Lifecycle(t *testing.T) {
	svc, notifier := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Title: "Buy milk", Description: "2% milk"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	want := Todo{ID: 1, Title: "Buy milk", Description: "2% milk", Completed: false}
	if *created != want {
		t.Errorf("Create() = %+v, want %+v", created, want)
	}

	got, err := svc.Get(ctx, 1)
	if err != nil || *got != want {
		t.Errorf("Get(1) = %+v, %v; want %+v", got, err, want)
	}

	updated, err := svc.Update(ctx, 1, Input{Title: "Buy milk", Description: "2% milk", Completed: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.Completed {
		t.Error("Update() did not set completed")
	}

	deleted, err := svc.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted.Completed || deleted.ID != 1 {
		t.Errorf("Delete() = %+v, want pre-deletion values", deleted)
	}

	if _, err := svc.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	wantTypes := []EventType{EventCreated, EventUpdated, EventDeleted}
	gotTypes := notifier.types()
	if len(gotTypes) != len(wantTypes) {
		t.Fatalf("events = %v, want %v", gotTypes, wantTypes)
	}
	for i := range wantTypes {
		if gotTypes[i] != wantTypes[i] {
			t.Errorf("event[%d] = %s, want %s", i, gotTypes[i], wantTypes[i])
		}
	}
	if notifier.events[2].Todo != *deleted {
		t.Errorf("delete event payload = %+v, want %+v", notifier.events[2].Todo, deleted)
	}
	if notifier.events[0].Timestamp.IsZero() {
		t.Error("event timestamp not set")
	}
}

func TestService_CreateInvalidLeavesStoreEmpty(t *testing.T) {
	svc, notifier := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Title: "", Description: "d"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}

	todos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("store has %d todos, want 0", len(todos))
	}
	if len(notifier.types()) != 0 {
		t.Error("rejected create should not emit an event")
	}
}

func TestService_UpdateInvalidLeavesRecordUnchanged(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(ctx, created.ID, Input{Title: "t", Description: strings.Repeat("x", 201), Completed: true})
	if !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("Update() error = %v, want ErrInvalidDescription", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != *created {
		t.Errorf("stored = %+v, want unchanged %+v", got, created)
	}
}

func TestService_UpdateMissingIDIsNotFound(t *testing.T) {
	svc, notifier := setupTestService(t)

	_, err := svc.Update(context.Background(), 99, Input{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing id, invalid input) error = %v, want ErrNotFound", err)
	}
	if len(notifier.types()) != 0 {
		t.Error("failed update should not emit an event")
	}
}

func TestService_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	valid := Input{Title: "t", Description: "d"}

	for _, id := range []int64{1, 2, 1000, 1 << 40} {
		if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%d) error = %v", id, err)
		}
		if _, err := svc.Update(ctx, id, valid); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(%d) error = %v", id, err)
		}
		if _, err := svc.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%d) error = %v", id, err)
		}
	}
}

func TestService_UniqueIDs(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		created, err := svc.Create(ctx, Input{Title: "t", Description: "d"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate ID %d", created.ID)
		}
		seen[created.ID] = true
		if i%3 == 0 {
			if _, err := svc.Delete(ctx, created.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
		}
	}
}

func TestService_ListMatchesStoredSet(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	ids := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		created, err := svc.Create(ctx, Input{Title: "t", Description: "d"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids[created.ID] = true
	}
	if _, err := svc.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	delete(ids, 3)

	todos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(todos) != len(ids) {
		t.Fatalf("List() returned %d, want %d", len(todos), len(ids))
	}
	for _, td := range todos {
		if !ids[td.ID] {
			t.Errorf("unexpected ID %d in list", td.ID)
		}
	}
}

func TestService_StoreFaultIsNotNotFound(t *testing.T) {
	svc := NewService(failingRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 1); !errors.Is(err, errStore) || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want wrapped store fault", err)
	}
	if _, err := svc.List(ctx); !errors.Is(err, errStore) {
		t.Errorf("List() error = %v, want wrapped store fault", err)
	}
	if _, err := svc.Create(ctx, Input{Title: "t", Description: "d"}); !errors.Is(err, errStore) {
		t.Errorf("Create() error = %v, want wrapped store fault", err)
	}
}

func TestService_NotifierFailureDoesNotFailRequest(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc := NewService(setupTestRepo(t), notifier)

	if _, err := svc.Create(context.Background(), Input{Title: "t", Description: "d"}); err != nil {
		t.Fatalf("Create() error = %v, want nil despite notifier failure", err)
	}
	if len(notifier.types()) != 1 {
		t.Error("notifier was not called")
	}
}

func TestMultiNotifier(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{err: errors.New("b failed")}
	c := &recordingNotifier{}
	var fnCalls int
	fn := NotifierFunc(func(context.Context, Event) error {
		fnCalls++
		return nil
	})

	m := MultiNotifier{a, b, nil, c, fn}
	err := m.Notify(context.Background(), Event{Type: EventCreated})
	if err == nil || !strings.Contains(err.Error(), "b failed") {
		t.Errorf("Notify() error = %v, want b's error", err)
	}
	if len(a.types()) != 1 || len(b.types()) != 1 || len(c.types()) != 1 || fnCalls != 1 {
		t.Error("every notifier should receive the event")
	}
}
