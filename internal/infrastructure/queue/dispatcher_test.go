package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfield/auth-system/internal/core/ports"
)

type recordingService struct {
	mu       sync.Mutex
	recorded []ports.AuthEventInput
	done     chan struct{}
}

func newRecordingService(expected int) *recordingService {
	return &recordingService{done: make(chan struct{}, expected)}
}

func (s *recordingService) Record(_ context.Context, in ports.AuthEventInput) error {
	s.mu.Lock()
	s.recorded = append(s.recorded, in)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *recordingService) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	svc := newRecordingService(2)
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.AuthEventInput{UserID: "u1", Description: "logged in"})
	d.Enqueue(ports.AuthEventInput{UserID: "u2", Description: "registration opened"})
	svc.wait(t, 2)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.recorded) != 2 {
		t.Fatalf("expected 2 events, got %d", len(svc.recorded))
	}
}

func TestDispatcher_SameUserSameWorker(t *testing.T) {
	d := NewDispatcher(4, newRecordingService(0), zerolog.Nop())

	first := d.shardIndex("u1")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("u1"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
