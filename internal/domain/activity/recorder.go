package activity

import (
	"context"
	"sync"
	"time"

	"cashbook-go/pkg/logger"
	"github.com/google/uuid"
)

// Sink accepts audit entries without ever blocking or failing the caller.
type Sink interface {
	Record(entry Entry)
}

// Recorder is the fire-and-forget audit writer: Record hands the entry to a
// buffered channel consumed by a single goroutine. A full buffer drops the
// entry; write failures are only operator-visible through the log.
type Recorder struct {
	repo Repository
	log  logger.Logger

	ch     chan Entry
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func NewRecorder(repo Repository, log logger.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		repo: repo,
		log:  log,
		ch:   make(chan Entry, buffer),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) Record(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.log.Warn("activity: record after close dropped", "action", entry.Action, "account_id", entry.AccountID)
		return
	}

	select {
	case r.ch <- entry:
	default:
		r.log.Warn("activity: buffer full, entry dropped", "action", entry.Action, "account_id", entry.AccountID)
	}
}

// Close stops accepting entries and drains the buffer.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for entry := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.CreateEntry(ctx, &entry); err != nil {
			r.log.Error("activity: write failed", "err", err, "action", entry.Action, "account_id", entry.AccountID)
		}
		cancel()
	}
}
