package usage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderOptions)

type recorderOptions struct {
	buffer      int
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// WithBuffer sets the task queue capacity.
func WithBuffer(n int) RecorderOption {
	return func(o *recorderOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithMaxAttempts sets how many times an append is tried before the record
// is dropped and counted.
func WithMaxAttempts(n int) RecorderOption {
	return func(o *recorderOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the base delay between append attempts. The delay
// grows linearly with the attempt number.
func WithRetryDelay(d time.Duration) RecorderOption {
	return func(o *recorderOptions) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// WithLogger sets the recorder's logger.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(o *recorderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(o *recorderOptions) {
		if now != nil {
			o.now = now
		}
	}
}

type appendTask struct {
	userID  uuid.UUID
	feature string
	at      time.Time
}

// Recorder appends usage records out of band. The enforcement pipeline hands
// it a record only after the gated action's response has been sent, so an
// append failure can never fail the original request; instead the append is
// retried in the background and, if it keeps failing, dropped with a log
// line and a counter bump so the loss is observable.
type Recorder struct {
	store Store
	opts  recorderOptions

	tasks   chan appendTask
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	started bool
	stopped bool

	dropped atomic.Int64
}

// NewRecorder returns a Recorder writing to the given ledger. Call Start
// before recording and Stop to flush outstanding appends.
func NewRecorder(store Store, opts ...RecorderOption) (*Recorder, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	options := recorderOptions{
		buffer:      1024,
		maxAttempts: 3,
		retryDelay:  time.Second,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Recorder{
		store: store,
		opts:  options,
		tasks: make(chan appendTask, options.buffer),
	}, nil
}

// Start launches the background append loop. The context bounds retries: on
// cancellation in-flight retries stop, but queued tasks are still attempted
// once each during drain.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.run(ctx)
	return nil
}

// Stop closes the queue and waits for queued appends to finish.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.tasks)
	r.mu.Unlock()

	r.wg.Wait()
	if r.cancel != nil {
		r.cancel()
	}
}

// Record enqueues one usage append stamped with the current time. It never
// blocks: when the queue is full the record is dropped, logged, and counted.
func (r *Recorder) Record(userID uuid.UUID, feature string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrRecorderStopped
	}

	select {
	case r.tasks <- appendTask{userID: userID, feature: feature, at: r.opts.now()}:
		return nil
	default:
		r.dropped.Add(1)
		r.opts.logger.Error("usage recorder queue full, dropping record",
			slog.String("user_id", userID.String()),
			slog.String("feature", feature))
		return ErrQueueFull
	}
}

// Dropped returns how many records were lost to a full queue or exhausted
// retries since the recorder was created.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) run(ctx context.Context) {
	defer r.wg.Done()

	for task := range r.tasks {
		r.append(ctx, task)
	}
}

func (r *Recorder) append(ctx context.Context, task appendTask) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.maxAttempts; attempt++ {
		lastErr = r.store.Append(ctx, task.userID, task.feature, task.at)
		if lastErr == nil {
			return
		}

		r.opts.logger.Warn("usage append failed",
			slog.String("user_id", task.userID.String()),
			slog.String("feature", task.feature),
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr))

		if attempt == r.opts.maxAttempts || ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
		case <-time.After(time.Duration(attempt) * r.opts.retryDelay):
		}
	}

	r.dropped.Add(1)
	r.opts.logger.Error("usage record dropped after retries",
		slog.String("user_id", task.userID.String()),
		slog.String("feature", task.feature),
		slog.Any("error", lastErr))
}
