package managed_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/managed"
	merrors "github.com/wippyai/managed/errors"
)

type conn struct {
	err    error
	closed int
}

func (c *conn) Close() error {
	c.closed++
	return c.err
}

func TestDefaultDeleter_Closer(t *testing.T) {
	c := &conn{}
	p := managed.Make(c)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.closed != 1 {
		t.Fatalf("closed %d times, want 1", c.closed)
	}
}

func TestDefaultDeleter_PlainType(t *testing.T) {
	if err := managed.DefaultDeleter(new(int)); err != nil {
		t.Fatalf("DefaultDeleter: %v", err)
	}
}

func TestClose_ReturnsDeleterError(t *testing.T) {
	boom := errors.New("boom")
	c := &conn{err: boom}
	p := managed.Make(c)

	err := p.Close()
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause %v, got %v", boom, err)
	}
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseDelete, Kind: merrors.KindDeleter}) {
		t.Fatalf("expected deleter error, got %v", err)
	}
	if p.Valid() {
		t.Fatal("handle should be empty even when the deleter fails")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if c.closed != 1 {
		t.Fatalf("closed %d times, want 1", c.closed)
	}
}

func TestReset_LogsDeleterError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := managed.Logger()
	managed.SetLogger(zap.New(core))
	defer managed.SetLogger(prev)

	p := managed.Make(&conn{err: errors.New("boom")})
	p.Reset()

	entries := logs.FilterMessage("managed: deleter failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
}

func TestWithDeleter(t *testing.T) {
	var deleted []string
	p := managed.Make(&cat{name: "Tom"}, managed.WithDeleter(func(c *cat) error {
		deleted = append(deleted, c.name)
		return nil
	}))

	p.ResetTo(&cat{name: "Jerry"})
	p.DisableDelete()
	p.Reset()

	if diff := cmp.Diff([]string{"Tom"}, deleted); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
}

func TestWithDeleter_WrongType(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for mismatched deleter")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T is not an error", r)
		}
		if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseAcquire, Kind: merrors.KindTypeMismatch}) {
			t.Fatalf("unexpected panic: %v", err)
		}
	}()
	managed.Make(&cat{}, managed.WithDeleter(func(*dog) error { return nil }))
}

func TestObserver(t *testing.T) {
	var got []managed.EventType
	obs := managed.ObserverFunc(func(e managed.Event) {
		got = append(got, e.Type)
	})

	a := managed.Make(&cat{name: "A"}, managed.WithObserver(obs))
	a.ResetTo(&cat{name: "B"})
	b := a.Move()
	b.DisableDelete()
	b.Reset()
	b.ResetTo(&cat{name: "C"})
	b.Release()

	want := []managed.EventType{
		managed.EventAdopted,   // A
		managed.EventDeleted,   // A
		managed.EventAdopted,   // B
		managed.EventMoved,     // B
		managed.EventAbandoned, // B
		managed.EventAdopted,   // C
		managed.EventReleased,  // C
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestObserver_EventDetails(t *testing.T) {
	var events []managed.Event
	c := &cat{name: "Tom"}
	p := managed.Make(c, managed.WithObserver(managed.ObserverFunc(func(e managed.Event) {
		events = append(events, e)
	})))
	p.Close()

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.Elem != p.ElemType() {
			t.Errorf("%s: Elem = %v", e.Type, e.Elem)
		}
		if e.Addr != unsafe.Pointer(c) {
			t.Errorf("%s: wrong address", e.Type)
		}
	}
}

func TestDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := managed.Logger()
	managed.SetLogger(zap.New(core))
	defer managed.SetLogger(prev)

	p := managed.New[int]()
	p.Close()

	if logs.FilterMessage("managed: adopted").Len() != 1 {
		t.Error("missing adopted log")
	}
	if logs.FilterMessage("managed: deleted").Len() != 1 {
		t.Error("missing deleted log")
	}
}

func TestEventTypeString(t *testing.T) {
	tests := map[managed.EventType]string{
		managed.EventAdopted:   "adopted",
		managed.EventDeleted:   "deleted",
		managed.EventAbandoned: "abandoned",
		managed.EventReleased:  "released",
		managed.EventMoved:     "moved",
		managed.EventType(99):  "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
