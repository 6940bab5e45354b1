package stage

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"wikidump/internal/wikidata"
)

type fakeIDLookup struct {
	records map[string]wikidata.IDRecord
}

func (f *fakeIDLookup) Get(_ context.Context, id string) (wikidata.IDRecord, bool, error) {
	rec, ok := f.records[id]
	return rec, ok, nil
}

type fakeLangStore struct {
	mu    sync.Mutex
	calls [][]wikidata.LangEntity
}

func (s *fakeLangStore) UpsertBulk(_ context.Context, entities []wikidata.LangEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := append([]wikidata.LangEntity{}, entities...)
	s.calls = append(s.calls, cp)
	return nil
}

func (s *fakeLangStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += len(c)
	}
	return n
}

func entityQ1() *wikidata.Entity {
	return &wikidata.Entity{
		ID:           "Q1",
		Labels:       map[string]wikidata.LangValue{"en": {Language: "en", Value: "Universe"}},
		Descriptions: map[string]wikidata.LangValue{"en": {Language: "en", Value: "totality of space and time"}},
		Sitelinks:    map[string]json.RawMessage{"enwiki": json.RawMessage(`{}`)},
	}
}

func TestLangProjection_S1_WritesProjectedEntity(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q1": {ID: "Q1", InWikipedia: true},
	}}
	ls := &fakeLangStore{}
	p := NewLangProjection(ids, ls, "en", 1)

	require.NoError(t, p.Handle(entityQ1()))
	require.Equal(t, 1, ls.total())
	got := ls.calls[0][0]
	require.Equal(t, "Universe", got.Label)
	require.Equal(t, "totality of space and time", got.Description)
}

func TestLangProjection_S2_NeverEntersLangStore(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q2": {ID: "Q2", InWikipedia: false},
	}}
	ls := &fakeLangStore{}
	p := NewLangProjection(ids, ls, "en", 1)

	require.NoError(t, p.Handle(&wikidata.Entity{ID: "Q2"}))
	require.Equal(t, 0, ls.total())
}

func TestLangProjection_AbsentFromIdStore_Skipped(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{}}
	ls := &fakeLangStore{}
	p := NewLangProjection(ids, ls, "en", 1)

	require.NoError(t, p.Handle(&wikidata.Entity{ID: "Q3"}))
	require.Equal(t, 0, ls.total())
}

func TestLangProjection_Close_DrainsRemainder(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q1": {ID: "Q1", InWikipedia: true},
	}}
	ls := &fakeLangStore{}
	p := NewLangProjection(ids, ls, "en", 10)

	require.NoError(t, p.Handle(entityQ1()))
	require.Equal(t, 0, ls.total())

	require.NoError(t, p.Close(context.Background()))
	require.Equal(t, 1, ls.total())
}
