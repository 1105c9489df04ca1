package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/pkg/metrics"
)

const (
	defaultWorkers     = 4
	defaultBuffer      = 256
	defaultMaxAttempts = 3
	defaultDrain       = 10 * time.Second
)

// Options sizes the dispatcher. Zero values fall back to the defaults; a zero
// Backoff retries immediately.
type Options struct {
	Workers     int
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration

	// DrainTimeout bounds delivery of notifications still queued at shutdown.
	DrainTimeout time.Duration
}

// Dispatcher delivers notifications on a fixed set of workers. Notifications
// are sharded by recipient, so one user's emails go out in enqueue order.
type Dispatcher struct {
	workers     []chan domain.Notification
	users       ports.UserRepository
	mailer      ports.Mailer
	maxAttempts int
	backoff     time.Duration
	drain       time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start before enqueueing.
func NewDispatcher(opts Options, users ports.UserRepository, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaultDrain
	}
	d := &Dispatcher{
		workers:     make([]chan domain.Notification, opts.Workers),
		users:       users,
		mailer:      mailer,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		drain:       opts.DrainTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Once ctx is cancelled each worker
// delivers what is left in its queue, up to the drain timeout, and exits.
// Wait blocks until all workers have exited.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands the notification to its recipient's worker. It never blocks:
// when the worker's queue is full the notification is dropped and counted.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	if !d.tryEnqueue(n) {
		metrics.NotificationsTotal.WithLabelValues(string(n.Template), "dropped").Inc()
		d.log.Warn().
			Str("template", string(n.Template)).
			Str("recipient", n.Recipient).
			Msg("notification queue full, dropping")
	}
}

func (d *Dispatcher) tryEnqueue(n domain.Notification) bool {
	id := d.shardIndex(n.Recipient)
	select {
	case d.workers[id] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(d.workers[id])))
		return true
	default:
		return false
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			d.drainQueue(id, ch, nil)
			depth.Set(0)
			return
		case n := <-ch:
			if ctx.Err() != nil {
				d.drainQueue(id, ch, &n)
				depth.Set(0)
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

// drainQueue delivers first, when set, and everything still buffered in ch on a
// context bounded by the drain timeout. Whatever is left at the deadline is
// dropped and counted.
func (d *Dispatcher) drainQueue(id int, ch <-chan domain.Notification, first *domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.drain)
	defer cancel()

	delivered := 0
	if first != nil {
		d.deliver(ctx, id, *first)
		delivered++
	}
	for ctx.Err() == nil {
		select {
		case n := <-ch:
			d.deliver(ctx, id, n)
			delivered++
		default:
			if delivered > 0 {
				d.log.Info().Int("worker_id", id).Int("delivered", delivered).Msg("notification queue drained")
			}
			return
		}
	}

	dropped := 0
	for {
		select {
		case n := <-ch:
			metrics.NotificationsTotal.WithLabelValues(string(n.Template), "dropped").Inc()
			dropped++
		default:
			d.log.Warn().
				Int("worker_id", id).
				Int("delivered", delivered).
				Int("dropped", dropped).
				Dur("drain_timeout", d.drain).
				Msg("drain deadline reached with pending notifications")
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n domain.Notification) {
	start := time.Now()
	result := "sent"
	defer func() {
		metrics.NotificationsTotal.WithLabelValues(string(n.Template), result).Inc()
		metrics.NotificationDeliveryDuration.WithLabelValues(string(n.Template)).Observe(time.Since(start).Seconds())
	}()

	user, err := d.users.FindByID(ctx, n.Recipient)
	if err != nil {
		result = "failed"
		evt := d.log.Error()
		if errors.Is(err, domain.ErrUserNotFound) {
			evt = d.log.Warn()
		}
		evt.Err(err).Str("recipient", n.Recipient).Str("template", string(n.Template)).Msg("cannot resolve notification recipient")
		return
	}

	msg := ports.Message{
		To:       user.Email,
		Name:     user.Name + " " + user.Lastname,
		Template: n.Template,
		Payload:  n.Payload,
	}

	for attempt := 1; ; attempt++ {
		err := d.mailer.Send(ctx, msg)
		if err == nil {
			return
		}
		if attempt >= d.maxAttempts || ctx.Err() != nil {
			result = "failed"
			d.log.Error().Err(err).
				Str("recipient", n.Recipient).
				Str("template", string(n.Template)).
				Int("attempts", attempt).
				Int("worker_id", workerID).
				Msg("notification delivery failed")
			return
		}

		d.log.Debug().Err(err).Int("attempt", attempt).Str("template", string(n.Template)).Msg("retrying notification")
		if d.backoff > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(d.backoff * time.Duration(attempt)):
			}
		}
	}
}
