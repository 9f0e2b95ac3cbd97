package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/logging"
)

// ErrWriterClosed 表示 Writer 已关闭，不再接受新任务。
var ErrWriterClosed = errors.New("cache writer closed")

// Job 是一次后台缓存写入。Tier/Key 仅用于日志。
type Job struct {
	Tier string
	Key  string
	Run  func(ctx context.Context) error
}

// WriterOptions 控制后台写入的并发度、队列长度与单次超时。
type WriterOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
	Logger    *logrus.Logger
}

// WriterStats 汇总后台写入的计数，供诊断接口输出。
type WriterStats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// Writer 在固定数量的 worker 上执行脱离请求生命周期的缓存写入。
// 任务失败只记录日志，不会回传给请求方；队列已满时直接丢弃。
type Writer struct {
	jobs    chan queuedJob
	timeout time.Duration
	logger  *logrus.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

type queuedJob struct {
	ctx context.Context
	job Job
}

// NewWriter 启动 worker 并返回 Writer，调用方负责在退出前 Close。
func NewWriter(opts WriterOptions) *Writer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	w := &Writer{
		jobs:    make(chan queuedJob, opts.QueueSize),
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	w.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go w.work()
	}
	return w
}

// Submit 非阻塞地投递任务。ctx 只提供 value，取消信号不会传递给任务。
// 返回 false 表示任务被丢弃（队列已满或已关闭）。
func (w *Writer) Submit(ctx context.Context, job Job) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if job.Run == nil {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.dropped.Add(1)
		w.logDrop(job, ErrWriterClosed.Error())
		return false
	}

	select {
	case w.jobs <- queuedJob{ctx: context.WithoutCancel(ctx), job: job}:
		w.submitted.Add(1)
		return true
	default:
		w.dropped.Add(1)
		w.logDrop(job, "queue_full")
		return false
	}
}

// Close 停止接收新任务并等待已入队任务完成，ctx 到期时提前返回。
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats 返回当前计数快照。
func (w *Writer) Stats() WriterStats {
	return WriterStats{
		Submitted: w.submitted.Load(),
		Completed: w.completed.Load(),
		Failed:    w.failed.Load(),
		Dropped:   w.dropped.Load(),
	}
}

func (w *Writer) work() {
	defer w.wg.Done()
	for queued := range w.jobs {
		w.run(queued)
	}
}

func (w *Writer) run(queued queuedJob) {
	ctx, cancel := context.WithTimeout(queued.ctx, w.timeout)
	defer cancel()

	started := time.Now()
	err := w.safeRun(ctx, queued.job)
	if err != nil {
		w.failed.Add(1)
		fields := logging.TierFields("cache_write_failed", queued.job.Tier, queued.job.Key)
		fields["elapsed_ms"] = time.Since(started).Milliseconds()
		w.logger.WithError(err).WithFields(fields).Warn("background cache write failed")
		return
	}
	w.completed.Add(1)
}

func (w *Writer) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("cache write panicked")
		}
	}()
	return job.Run(ctx)
}

func (w *Writer) logDrop(job Job, reason string) {
	fields := logging.TierFields("cache_write_dropped", job.Tier, job.Key)
	fields["reason"] = reason
	w.logger.WithFields(fields).Warn("background cache write dropped")
}
