package app

import (
	"fmt"
	"os"
	"time"

	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/index"
	"github.com/ifaasih/mvx/internal/ingest"
	"github.com/ifaasih/mvx/internal/record"
	"github.com/ifaasih/mvx/internal/search"
	"github.com/ifaasih/mvx/internal/status"
	"github.com/ifaasih/mvx/internal/store"
	"go.uber.org/zap"
)

// Loader drives one full load: read the export blob, fold it, mirror the
// result into the store, and hand the search worker a fresh corpus.
type Loader struct {
	params  Params
	agg     *ingest.Aggregator
	db      *store.DB
	worker  *search.Worker
	bus     *bus.Bus
	machine *status.Machine
	logger  *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(p Params, agg *ingest.Aggregator, db *store.DB, worker *search.Worker, b *bus.Bus, machine *status.Machine, logger *zap.Logger) *Loader {
	return &Loader{
		params:  p,
		agg:     agg,
		db:      db,
		worker:  worker,
		bus:     b,
		machine: machine,
		logger:  logger,
	}
}

// Run performs the load. Individual bad rows are absorbed by the fold;
// only a fundamentally unreadable blob fails the run.
func (l *Loader) Run() error {
	began := time.Now()
	_ = l.machine.Transition(status.Loading)
	l.bus.Publish(bus.Event{Kind: bus.KindLoadStarted, Timestamp: time.Now(), Payload: l.params.ExportPath})

	data, err := os.ReadFile(l.params.ExportPath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	records, err := record.Decode(data)
	if err != nil {
		return err
	}

	snap := l.agg.Fold(records)
	if err := l.db.ReplaceSnapshot(snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	l.bus.Publish(bus.Event{Kind: bus.KindLoadStored, Timestamp: time.Now(), Payload: snap.LoadID})

	_ = l.machine.Transition(status.Indexing)
	l.worker.Load(index.Build(snap))
	l.bus.Publish(bus.Event{Kind: bus.KindLoadIndexed, Timestamp: time.Now(), Payload: snap.LoadID})

	_ = l.machine.Transition(status.Ready)
	l.logger.Info("export loaded",
		zap.String("load_id", snap.LoadID),
		zap.Int("contacts", len(snap.Contacts)),
		zap.Int("messages", snap.MessageTotal()),
		zap.Int("skipped", snap.Skipped),
		zap.Duration("took", time.Since(began)),
	)
	return nil
}
