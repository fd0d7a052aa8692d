// Package search runs substring queries on a dedicated worker goroutine
// so corpus scans never block the rendering surface.
package search

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ifaasih/mvx/internal/index"
	"go.uber.org/zap"
)

// Result is the reply to one query, correlated to the request by ID.
// Filtered=false means the query was empty: show everything, unfiltered.
type Result struct {
	ID       int64
	Matches  []index.Match
	Filtered bool
}

type request struct {
	id    int64
	query string
	reply chan Result
}

// Worker owns a private copy of the search corpus and processes queries
// one at a time in arrival order. Replies are correlated by request id,
// never by arrival order; callers must discard stale ids themselves.
type Worker struct {
	reqCh   chan request
	loadCh  chan []index.Entry
	done    chan struct{}
	cancel  context.CancelFunc
	timeout time.Duration
	context int
	nextID  atomic.Int64
	logger  *zap.Logger
}

// NewWorker creates a search worker. timeout bounds how long a submitted
// query may wait for a reply before resolving empty; snippetContext is the
// character budget on each side of a match snippet.
func NewWorker(timeout time.Duration, snippetContext int, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		reqCh:   make(chan request, 16),
		loadCh:  make(chan []index.Entry, 1),
		done:    make(chan struct{}),
		timeout: timeout,
		context: snippetContext,
		logger:  logger,
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
}

// Stop terminates the worker. Pending and future submissions resolve to
// empty results rather than hanging.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// Load replaces the worker's corpus. The caller hands over the slice and
// must not mutate it afterwards; rebuilding per load (rather than
// patching) keeps ownership single-sided. Queries already in flight run
// against the old corpus, which is harmless: the next keystroke
// supersedes them.
func (w *Worker) Load(entries []index.Entry) {
	select {
	case <-w.loadCh:
		// Drop a not-yet-consumed corpus; only the newest matters.
	default:
	}
	select {
	case w.loadCh <- entries:
	case <-w.done:
	}
}

// Submit issues a query and returns its id plus a channel that will
// receive exactly one Result. On timeout or worker shutdown the result is
// empty but Filtered is still accurate for the query text, so the caller
// fails open to "no matches" rather than hanging.
func (w *Worker) Submit(query string) (int64, <-chan Result) {
	id := w.nextID.Add(1)
	req := request{id: id, query: query, reply: make(chan Result, 1)}
	out := make(chan Result, 1)

	go func() {
		empty := Result{ID: id, Matches: nil, Filtered: strings.TrimSpace(query) != ""}
		timer := time.NewTimer(w.timeout)
		defer timer.Stop()

		select {
		case w.reqCh <- req:
		case <-w.done:
			out <- empty
			return
		case <-timer.C:
			out <- empty
			return
		}

		select {
		case res := <-req.reply:
			out <- res
		case <-w.done:
			out <- empty
		case <-timer.C:
			out <- empty
		}
	}()

	return id, out
}

// Search is the blocking convenience form of Submit.
func (w *Worker) Search(query string) Result {
	_, ch := w.Submit(query)
	return <-ch
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)

	var corpus []index.Entry
	for {
		// A pending corpus replacement wins over queued queries.
		select {
		case entries := <-w.loadCh:
			corpus = entries
			w.logger.Info("search corpus loaded", zap.Int("entries", len(entries)))
			continue
		default:
		}

		select {
		case entries := <-w.loadCh:
			corpus = entries
			w.logger.Info("search corpus loaded", zap.Int("entries", len(entries)))
		case req := <-w.reqCh:
			matches, filtered := index.Filter(corpus, req.query, w.context)
			req.reply <- Result{ID: req.id, Matches: matches, Filtered: filtered}
		case <-ctx.Done():
			return
		}
	}
}
