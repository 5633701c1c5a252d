package store

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("recorder closed")

type RecorderOptions struct {
	// FlushRows finalizes a batch once it holds this many rows.
	FlushRows int
	// FlushEvery finalizes a non-empty batch on this interval.
	FlushEvery time.Duration
	// Buffer is the channel capacity. Record drops rows when it is full.
	Buffer int
	Logger *slog.Logger
}

func DefaultRecorderOptions() RecorderOptions {
	return RecorderOptions{
		FlushRows:  5000,
		FlushEvery: 30 * time.Second,
		Buffer:     1024,
	}
}

// Recorder owns a BatchWriter on a single goroutine and feeds it from a
// channel. It numbers turns per match in arrival order.
type Recorder struct {
	dir  string
	opts RecorderOptions
	log  *slog.Logger

	rows chan TurnRow
	done chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool

	dropped atomic.Int64
	written atomic.Int64
	files   atomic.Int64

	turns map[string]int32
	err   error
}

func NewRecorder(dir string, opts RecorderOptions) *Recorder {
	def := DefaultRecorderOptions()
	if opts.FlushRows <= 0 {
		opts.FlushRows = def.FlushRows
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = def.FlushEvery
	}
	if opts.Buffer <= 0 {
		opts.Buffer = def.Buffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		dir:   dir,
		opts:  opts,
		log:   logger,
		rows:  make(chan TurnRow, opts.Buffer),
		done:  make(chan struct{}),
		turns: make(map[string]int32),
	}
	go r.run()
	return r
}

// Record queues row without blocking. It returns false if the row was
// dropped because the buffer is full.
func (r *Recorder) Record(row TurnRow) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false, ErrRecorderClosed
	}
	select {
	case r.rows <- row:
		return true, nil
	default:
		r.dropped.Add(1)
		return false, nil
	}
}

func (r *Recorder) Dropped() int64 { return r.dropped.Load() }
func (r *Recorder) Written() int64 { return r.written.Load() }
func (r *Recorder) Files() int64   { return r.files.Load() }

// Close flushes everything queued so far and waits for the final batch.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.rows)
		r.mu.Unlock()
	})
	<-r.done
	return r.err
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.opts.FlushEvery)
	defer ticker.Stop()

	var bw *BatchWriter
	flush := func(why string) {
		if bw == nil {
			return
		}
		path, n, matches, err := bw.Finalize()
		bw = nil
		if err != nil {
			r.err = errors.Join(r.err, err)
			r.log.Error("turn archive flush failed", "error", err)
			return
		}
		if path == "" {
			return
		}
		r.written.Add(int64(n))
		r.files.Add(1)
		r.log.Info("turn archive flushed",
			"path", path,
			"rows", n,
			"matches", matches,
			"reason", why,
		)
	}

	for {
		select {
		case row, ok := <-r.rows:
			if !ok {
				flush("close")
				return
			}
			r.turns[row.MatchID]++
			row.Turn = r.turns[row.MatchID]
			if row.AtMs == 0 {
				row.AtMs = time.Now().UnixMilli()
			}

			if bw == nil {
				w, err := NewBatchWriter(r.dir)
				if err != nil {
					r.err = errors.Join(r.err, err)
					r.log.Error("turn archive open failed", "error", err)
					r.dropped.Add(1)
					continue
				}
				bw = w
			}
			if err := bw.WriteRows([]TurnRow{row}); err != nil {
				r.err = errors.Join(r.err, err)
				r.log.Error("turn archive write failed", "error", err)
				continue
			}
			if bw.Buffered() >= r.opts.FlushRows {
				flush("rows")
			}
		case <-ticker.C:
			flush("interval")
		}
	}
}
