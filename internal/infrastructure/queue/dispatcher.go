package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/api/metrics"
	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	publishTimeout = 10 * time.Second
)

// Dispatcher routes transaction events to a fixed set of workers using
// consistent hashing on the owner, guaranteeing per-identity event ordering.
type Dispatcher struct {
	workers   []chan domain.TransactionEvent
	publisher ports.EventPublisher
	log       zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, publisher, log)
}

func newDispatcher(numWorkers, buffer int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.TransactionEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TransactionEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when Stop closes their
// channels or ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands evt to the worker responsible for its owner. It never blocks:
// a full queue or a stopped dispatcher drops the event and returns false.
func (d *Dispatcher) Enqueue(evt domain.TransactionEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(evt, "dispatcher stopped")
		return false
	}

	idx := d.shardIndex(evt.Owner)
	select {
	case d.workers[idx] <- evt:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		d.drop(evt, "worker queue full")
		return false
	}
}

// Stop closes the worker queues and waits until pending events are published
// or ctx expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(evt domain.TransactionEvent, reason string) {
	metrics.EventsDroppedTotal.Inc()
	d.log.Warn().
		Str("transaction_id", evt.TransactionID).
		Str("owner", evt.Owner).
		Str("reason", reason).
		Msg("transaction event dropped")
}

// shardIndex maps an owner id deterministically to a worker index.
func (d *Dispatcher) shardIndex(owner string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(owner))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TransactionEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.publish(ctx, id, evt)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, workerID int, evt domain.TransactionEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(pubCtx, evt)
	metrics.EventPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("transaction_id", evt.TransactionID).
			Str("owner", evt.Owner).
			Int("worker_id", workerID).
			Msg("event publishing failed")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("success").Inc()
}
