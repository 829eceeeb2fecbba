package output

import (
	"errors"
	"strings"
	"testing"
)

type fakeSink struct {
	writes   []any
	writeErr error
	closeErr error
	closed   bool
}

func (s *fakeSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *fakeSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestManager(t *testing.T) {
	t.Run("writes to all sinks", func(t *testing.T) {
		a := &fakeSink{}
		b := &fakeSink{}

		mgr := NewManager()
		if err := mgr.AddSink(a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink(b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		if err := mgr.Write("v1"); err != nil {
			t.Fatalf("Write(v1) error: %v", err)
		}
		if err := mgr.Write("v2"); err != nil {
			t.Fatalf("Write(v2) error: %v", err)
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}

		if len(a.writes) != 2 || len(b.writes) != 2 {
			t.Fatalf("writes: a=%d b=%d, want 2 each", len(a.writes), len(b.writes))
		}
		if !a.closed || !b.closed {
			t.Fatal("expected all sinks closed")
		}
	})

	t.Run("AddSink rejects nil", func(t *testing.T) {
		mgr := NewManager()
		if err := mgr.AddSink(nil); err == nil {
			t.Fatalf("AddSink(nil) want error, got nil")
		}
	})

	t.Run("Write aggregates sink errors", func(t *testing.T) {
		a := &fakeSink{writeErr: errors.New("boom-a")}
		b := &fakeSink{writeErr: errors.New("boom-b")}
		mgr := NewManager()
		if err := mgr.AddSink(a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink(b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		err := mgr.Write("v")
		if err == nil {
			t.Fatalf("Write want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors writing to sinks", "boom-a", "boom-b"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Write error missing %q; got: %s", want, msg)
			}
		}
		// Both sinks still saw the write despite the first one failing.
		if len(a.writes) != 1 || len(b.writes) != 1 {
			t.Fatalf("writes: a=%d b=%d, want 1 each", len(a.writes), len(b.writes))
		}
	})

	t.Run("Close aggregates sink errors", func(t *testing.T) {
		a := &fakeSink{closeErr: errors.New("close-a")}
		b := &fakeSink{closeErr: errors.New("close-b")}
		mgr := NewManager()
		if err := mgr.AddSink(a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink(b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		err := mgr.Close()
		if err == nil {
			t.Fatalf("Close want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors closing sinks", "close-a", "close-b"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Close error missing %q; got: %s", want, msg)
			}
		}
	})
}
