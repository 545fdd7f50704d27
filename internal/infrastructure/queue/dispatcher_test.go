package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

type recordingPublisher struct {
	mu      sync.Mutex
	byOwner map[string][]string
	failFor string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{byOwner: make(map[string][]string)}
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.TransactionEvent) error {
	if evt.Owner == p.failFor {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byOwner[evt.Owner] = append(p.byOwner[evt.Owner], evt.TransactionID)
	return nil
}

func TestDispatcher_PreservesPerOwnerOrder(t *testing.T) {
	pub := newRecordingPublisher()
	d := NewDispatcher(4, pub, zerolog.Nop())
	d.Start(context.Background())

	owners := []string{"alice", "bob", "carol"}
	for i := 0; i < 50; i++ {
		for _, owner := range owners {
			evt := domain.TransactionEvent{Owner: owner, TransactionID: fmt.Sprintf("%s-%03d", owner, i)}
			if !d.Enqueue(evt) {
				t.Fatalf("unexpected drop of %s", evt.TransactionID)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	for _, owner := range owners {
		got := pub.byOwner[owner]
		if len(got) != 50 {
			t.Fatalf("%s: expected 50 events, got %d", owner, len(got))
		}
		for i, id := range got {
			if want := fmt.Sprintf("%s-%03d", owner, i); id != want {
				t.Fatalf("%s: position %d expected %s, got %s", owner, i, want, id)
			}
		}
	}
}

func TestDispatcher_DropsWhenFullOrStopped(t *testing.T) {
	pub := newRecordingPublisher()
	d := newDispatcher(1, 1, pub, zerolog.Nop())

	// Not started, so the single slot fills up.
	if !d.Enqueue(domain.TransactionEvent{Owner: "a", TransactionID: "1"}) {
		t.Fatalf("first event should be queued")
	}
	if d.Enqueue(domain.TransactionEvent{Owner: "a", TransactionID: "2"}) {
		t.Fatalf("second event should be dropped")
	}

	d.Start(context.Background())
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if d.Enqueue(domain.TransactionEvent{Owner: "a", TransactionID: "3"}) {
		t.Fatalf("enqueue after stop should be dropped")
	}
	if got := pub.byOwner["a"]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("expected only the first event to be published, got %v", got)
	}
}

func TestDispatcher_PublishErrorsDoNotStopWorker(t *testing.T) {
	pub := newRecordingPublisher()
	pub.failFor = "broken"
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(domain.TransactionEvent{Owner: "broken", TransactionID: "x"})
	d.Enqueue(domain.TransactionEvent{Owner: "fine", TransactionID: "y"})

	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := pub.byOwner["fine"]; len(got) != 1 {
		t.Fatalf("expected worker to keep going after a failure, got %v", got)
	}
}
