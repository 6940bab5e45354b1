package stage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"wikidump/internal/textify"
	"wikidump/internal/tokenizer"
	"wikidump/internal/wikidata"
)

type fakeLangFetch struct {
	entities map[string]wikidata.LangEntity
}

func (f *fakeLangFetch) Get(_ context.Context, id string) (wikidata.LangEntity, bool, error) {
	e, ok := f.entities[id]
	return e, ok, nil
}

type noopLookup struct{}

func (noopLookup) Label(_ context.Context, _ string) (string, bool, error) { return "", false, nil }

type fakeWriter struct {
	mu   sync.Mutex
	docs []struct {
		ID       string
		Text     string
		Metadata map[string]string
	}
}

func (w *fakeWriter) AddDocument(_ context.Context, id, text string, metadata map[string]string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs = append(w.docs, struct {
		ID       string
		Text     string
		Metadata map[string]string
	}{id, text, metadata})
	return false, nil
}

func TestShip_S1_EmitsOneChunk(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q1": {ID: "Q1", InWikipedia: true},
	}}
	langs := &fakeLangFetch{entities: map[string]wikidata.LangEntity{
		"Q1": {ID: "Q1", Label: "Universe", Description: "totality of space and time", Claims: wikidata.NewClaimsMap()},
	}}
	writer := &fakeWriter{}
	tf := textify.NewTextifier("en", textify.EnglishPack{}, noopLookup{})
	s := NewShip(ids, langs, writer, tf, tokenizer.Heuristic{}, 4096, "en", "2024-01-01")

	require.NoError(t, s.Handle(&wikidata.Entity{ID: "Q1"}))
	require.Len(t, writer.docs, 1)

	doc := writer.docs[0]
	require.Equal(t, "Q1_en_1", doc.ID)
	require.Contains(t, doc.Text, "Universe")
	require.Equal(t, "Q1", doc.Metadata["QID"])
	require.Equal(t, "1", doc.Metadata["ChunkID"])
	require.Equal(t, "en", doc.Metadata["Language"])
	require.Equal(t, "2024-01-01", doc.Metadata["DumpDate"])
	require.Equal(t, "true", doc.Metadata["IsItem"])
	require.NotEmpty(t, doc.Metadata["MD5"])
}

func TestShip_S2_NotInWikipedia_SkipsEntirely(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q2": {ID: "Q2", InWikipedia: false},
	}}
	langs := &fakeLangFetch{}
	writer := &fakeWriter{}
	tf := textify.NewTextifier("en", textify.EnglishPack{}, noopLookup{})
	s := NewShip(ids, langs, writer, tf, tokenizer.Heuristic{}, 4096, "en", "2024-01-01")

	require.NoError(t, s.Handle(&wikidata.Entity{ID: "Q2"}))
	require.Empty(t, writer.docs)
}

func TestShip_AbsentFromLangStore_SkipsEntirely(t *testing.T) {
	ids := &fakeIDLookup{records: map[string]wikidata.IDRecord{
		"Q9": {ID: "Q9", InWikipedia: true},
	}}
	langs := &fakeLangFetch{}
	writer := &fakeWriter{}
	tf := textify.NewTextifier("en", textify.EnglishPack{}, noopLookup{})
	s := NewShip(ids, langs, writer, tf, tokenizer.Heuristic{}, 4096, "en", "2024-01-01")

	require.NoError(t, s.Handle(&wikidata.Entity{ID: "Q9"}))
	require.Empty(t, writer.docs)
}
