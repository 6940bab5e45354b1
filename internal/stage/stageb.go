package stage

import (
	"context"
	"fmt"
	"sync"

	"wikidump/internal/wikidata"
)

// IDLookup is the subset of store.IdStore Stage B reads from: it decides
// whether an entity qualifies for language projection by its own IdRecord,
// not by recomputing InWikipedia against possibly-stale claim data.
type IDLookup interface {
	Get(ctx context.Context, id string) (wikidata.IDRecord, bool, error)
}

// LangStore is the subset of store.LangStore Stage B writes through.
type LangStore interface {
	UpsertBulk(ctx context.Context, entities []wikidata.LangEntity) error
}

// LangProjection is Stage B: for each entity present in IdStore with
// in_wikipedia=true, project it into lang and buffer it for LangStore.
// Entities absent from IdStore, or present with in_wikipedia=false, never
// enter LangStore (scenario S2).
type LangProjection struct {
	IDs       IDLookup
	Store     LangStore
	Lang      string
	BatchSize int

	mu  sync.Mutex
	buf []wikidata.LangEntity
}

// NewLangProjection builds a Stage B handler. batchSize <= 0 defaults to
// 1000, matching config.BulkConfig's default.
func NewLangProjection(ids IDLookup, store LangStore, lang string, batchSize int) *LangProjection {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &LangProjection{IDs: ids, Store: store, Lang: lang, BatchSize: batchSize}
}

// Handle conforms to dumpreader.Handler.
func (s *LangProjection) Handle(e *wikidata.Entity) error {
	ctx := context.Background()
	rec, found, err := s.IDs.Get(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("stage: lang projection id lookup for %s: %w", e.ID, err)
	}
	if !found || !rec.InWikipedia {
		return nil
	}

	entity := wikidata.Project(e, s.Lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, entity)
	if len(s.buf) < s.BatchSize {
		return nil
	}
	flush := s.buf
	s.buf = nil
	if err := s.Store.UpsertBulk(ctx, flush); err != nil {
		return fmt.Errorf("stage: lang projection flush: %w", err)
	}
	return nil
}

// Close drains any buffered entities. Call once the dump has been fully read.
func (s *LangProjection) Close(ctx context.Context) error {
	s.mu.Lock()
	flush := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(flush) == 0 {
		return nil
	}
	if err := s.Store.UpsertBulk(ctx, flush); err != nil {
		return fmt.Errorf("stage: lang projection final flush: %w", err)
	}
	return nil
}
