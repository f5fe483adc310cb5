package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Status is the terminal state of a processed job.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result records the outcome of one job. Variants maps every attempted width
// to its error, nil on success. A failed job attempts no width.
type Result struct {
	Status   Status
	Err      error
	Variants map[int]error
}

// NodeLookup fetches a node only when it belongs to ownerID.
type NodeLookup interface {
	LookupOwned(ctx context.Context, fileID, ownerID string) (*models.FileNode, error)
}

type Worker struct {
	nodes       NodeLookup
	blobs       blobstore.Store
	consumer    queue.Consumer
	resizer     Resizer
	logger      logging.Logger
	widths      []int
	concurrency int
	limiter     *rate.Limiter
	pollTimeout time.Duration
	retryDelay  time.Duration
}

type Option func(*Worker)

// WithConcurrency sets the number of parallel consumers, at least one.
func WithConcurrency(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithRate caps the jobs started per second across all consumers; 0 means
// no limit.
func WithRate(perSecond float64) Option {
	return func(w *Worker) {
		if perSecond > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithResizer(r Resizer) Option {
	return func(w *Worker) { w.resizer = r }
}

// WithPollTimeout sets how long a consumer blocks waiting for a job.
func WithPollTimeout(d time.Duration) Option {
	return func(w *Worker) { w.pollTimeout = d }
}

func NewWorker(nodes NodeLookup, blobs blobstore.Store, consumer queue.Consumer, l logging.Logger, opts ...Option) *Worker {
	w := &Worker{
		nodes:       nodes,
		blobs:       blobs,
		consumer:    consumer,
		resizer:     NewImageResizer(),
		logger:      l.With("module", "thumbnails"),
		widths:      models.ThumbnailWidths,
		concurrency: 1,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		pollTimeout: 5 * time.Second,
		retryDelay:  time.Second,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Process re-validates the job's node and writes one variant per width.
// Width failures are recorded and do not fail the job.
func (w *Worker) Process(ctx context.Context, job models.ThumbnailJob) Result {
	if job.FileID == "" {
		return Result{Status: StatusFailed, Err: errors.New("missing fileId")}
	}
	if job.UserID == "" {
		return Result{Status: StatusFailed, Err: errors.New("missing userId")}
	}

	node, err := w.nodes.LookupOwned(ctx, job.FileID, job.UserID)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("file not found: %w", err)}
	}
	if node.ContentPath == "" {
		return Result{Status: StatusFailed, Err: errors.New("file has no content")}
	}

	src, err := w.blobs.Read(ctx, node.ContentPath)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("read original: %w", err)}
	}

	res := Result{Status: StatusCompleted, Variants: make(map[int]error, len(w.widths))}
	for _, width := range w.widths {
		err := w.writeVariant(ctx, node.ContentPath, src, width)
		if err != nil {
			w.logger.Warn(ctx, "thumbnail failed", "file_id", node.ID, "width", width, "error", err)
		}
		res.Variants[width] = err
	}
	return res
}

func (w *Worker) writeVariant(ctx context.Context, path string, src []byte, width int) error {
	data, err := w.resizer.Resize(src, width)
	if err != nil {
		return err
	}
	return w.blobs.Put(ctx, blobstore.VariantPath(path, width), data)
}

// Run requeues deliveries left over by a previous run, then consumes jobs
// until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	n, err := w.consumer.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recover deliveries: %w", err)
	}
	if n > 0 {
		w.logger.Info(ctx, "requeued unacknowledged jobs", "count", n)
	}

	w.logger.Info(ctx, "Starting thumbnail worker", "concurrency", w.concurrency)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			w.consume(ctx)
			return nil
		})
	}
	err = g.Wait()

	w.logger.Info(context.Background(), "Stopping thumbnail worker...")
	return err
}

func (w *Worker) consume(ctx context.Context) {
	for ctx.Err() == nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}

		d, err := w.consumer.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrNoJob) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.Error(ctx, "dequeue failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryDelay):
			}
			continue
		}

		w.handle(ctx, d)
	}
}

func (w *Worker) handle(ctx context.Context, d *queue.Delivery) {
	if d.Err != nil {
		w.logger.Error(ctx, "dropping malformed job", "error", d.Err)
	} else {
		res := w.Process(ctx, d.Job)
		if res.Status == StatusFailed {
			w.logger.Error(ctx, "job failed", "file_id", d.Job.FileID, "error", res.Err)
		} else {
			w.logger.Info(ctx, "job completed", "file_id", d.Job.FileID, "variants", len(res.Variants))
		}
	}

	// Ack even on failure: the worker never retries a job itself.
	if err := w.consumer.Ack(ctx, d); err != nil {
		w.logger.Error(ctx, "ack failed", "file_id", d.Job.FileID, "error", err)
	}
}
