// Package stage wires dumpreader.Handler around each of the pipeline's
// three passes (id discovery, language projection, textify-and-ship),
// grounded on Data_Preparation_streamline.py's batch-then-flush handlers:
// a mutex-guarded buffer accumulates records until it reaches a configured
// size, then flushes under the same lock. dumpreader invokes a Handler
// concurrently from multiple consumer goroutines, so every buffer here is
// sync.Mutex-protected.
package stage

import (
	"context"
	"fmt"
	"sync"

	"wikidump/internal/wikidata"
)

// IDStore is the subset of store.IdStore Stage A writes through.
type IDStore interface {
	UpsertBulk(ctx context.Context, records []wikidata.IDRecord) error
}

// IDDiscovery is Stage A: for every entity, extract the entity's own id
// record plus every id referenced from its claims/qualifiers, buffering
// until BatchSize then flushing to IDStore.
type IDDiscovery struct {
	Store     IDStore
	Lang      string
	BatchSize int

	mu  sync.Mutex
	buf []wikidata.IDRecord
}

// NewIDDiscovery builds a Stage A handler. batchSize <= 0 defaults to 5000,
// matching config.BulkConfig's default.
func NewIDDiscovery(store IDStore, lang string, batchSize int) *IDDiscovery {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &IDDiscovery{Store: store, Lang: lang, BatchSize: batchSize}
}

// Handle conforms to dumpreader.Handler.
func (s *IDDiscovery) Handle(e *wikidata.Entity) error {
	records := wikidata.ExtractEntityIDs(e, s.Lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, records...)
	if len(s.buf) < s.BatchSize {
		return nil
	}
	flush := s.buf
	s.buf = nil
	if err := s.Store.UpsertBulk(context.Background(), flush); err != nil {
		return fmt.Errorf("stage: id discovery flush: %w", err)
	}
	return nil
}

// Close drains any buffered records. Call once the dump has been fully read.
func (s *IDDiscovery) Close(ctx context.Context) error {
	s.mu.Lock()
	flush := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(flush) == 0 {
		return nil
	}
	if err := s.Store.UpsertBulk(ctx, flush); err != nil {
		return fmt.Errorf("stage: id discovery final flush: %w", err)
	}
	return nil
}
