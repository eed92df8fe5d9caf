package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/api/metrics"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists decision records asynchronously on a fixed set of
// workers. Records are sharded by actor id so that one actor's trail is
// written in order. Record never blocks: when a worker channel is full the
// record is dropped and counted.
type Dispatcher struct {
	workers []chan ports.DecisionRecord
	repo    ports.DecisionRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.DecisionRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.DecisionRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.DecisionRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues rec on the worker responsible for its actor.
func (d *Dispatcher) Record(rec ports.DecisionRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	idx := d.shardIndex(rec.Actor.ID)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("action", rec.Action.Kind.String()).
			Int64("actor_id", rec.Actor.ID).
			Int("worker_id", idx).
			Msg("audit queue full, decision record dropped")
	}
}

// Close stops accepting records and waits for the workers to flush what is
// already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an actor id deterministically to a worker index. Anonymous
// actors all land on worker 0.
func (d *Dispatcher) shardIndex(actorID int64) int {
	if actorID < 0 {
		actorID = -actorID
	}
	return int(actorID % int64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.DecisionRecord) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Dec()
			d.write(context.WithoutCancel(ctx), id, rec)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, worker int, rec ports.DecisionRecord) {
	start := time.Now()
	err := d.repo.Insert(ctx, rec)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("action", rec.Action.Kind.String()).
			Int64("actor_id", rec.Actor.ID).
			Int("worker_id", worker).
			Msg("decision record write failed")
	}
}
