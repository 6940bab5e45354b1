package stage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"wikidump/internal/index"
	"wikidump/internal/textify"
	"wikidump/internal/tokenizer"
	"wikidump/internal/wikidata"
)

// LangFetch is the subset of store.LangStore Stage C reads the projected
// entity back from: it was written by Stage B, keyed by the same entity id.
type LangFetch interface {
	Get(ctx context.Context, id string) (wikidata.LangEntity, bool, error)
}

// Writer is the subset of batchwriter.BatchWriter Stage C ships chunks
// through.
type Writer interface {
	AddDocument(ctx context.Context, id, text string, metadata map[string]string) (bool, error)
}

// Ship is Stage C: for each entity IdStore marked in_wikipedia, fetch its
// LangStore projection, textify and chunk it, and hand every chunk to a
// BatchWriter, with the §6 metadata wire format attached.
type Ship struct {
	IDs       IDLookup
	Lang      LangFetch
	Writer    Writer
	Textifier *textify.Textifier
	Tokenizer tokenizer.Tokenizer
	MaxLength int
	Language  string
	DumpDate  string
}

// NewShip builds a Stage C handler.
func NewShip(ids IDLookup, lang LangFetch, writer Writer, t *textify.Textifier, tok tokenizer.Tokenizer, maxLength int, language, dumpDate string) *Ship {
	return &Ship{
		IDs:       ids,
		Lang:      lang,
		Writer:    writer,
		Textifier: t,
		Tokenizer: tok,
		MaxLength: maxLength,
		Language:  language,
		DumpDate:  dumpDate,
	}
}

// Handle conforms to dumpreader.Handler.
func (s *Ship) Handle(e *wikidata.Entity) error {
	ctx := context.Background()
	rec, found, err := s.IDs.Get(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("stage: ship id lookup for %s: %w", e.ID, err)
	}
	if !found || !rec.InWikipedia {
		return nil
	}

	entity, found, err := s.Lang.Get(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("stage: ship lang fetch for %s: %w", e.ID, err)
	}
	if !found {
		return nil
	}

	texts, err := s.Textifier.ChunkText(ctx, entity, s.Tokenizer, s.MaxLength)
	if err != nil {
		return fmt.Errorf("stage: ship chunk %s: %w", e.ID, err)
	}

	emittedAt := time.Now().UTC().Format(time.RFC3339)
	for i, text := range texts {
		sum := md5.Sum([]byte(text))
		chunk := index.Chunk{
			Text:        text,
			MD5:         hex.EncodeToString(sum[:]),
			Label:       entity.Label,
			Description: entity.Description,
			Aliases:     entity.Aliases,
			Date:        emittedAt,
			QID:         e.ID,
			ChunkID:     i + 1,
			Language:    s.Language,
			IsItem:      e.Type != "property",
			IsProperty:  rec.IsProperty || e.Type == "property",
			DumpDate:    s.DumpDate,
		}
		if _, err := s.Writer.AddDocument(ctx, chunk.ID(), chunk.Text, chunk.Metadata()); err != nil {
			return fmt.Errorf("stage: ship add document %s: %w", chunk.ID(), err)
		}
	}
	return nil
}

// Close flushes the underlying BatchWriter's remaining buffer. Call once
// the dump has been fully read.
func (s *Ship) Close(ctx context.Context) error {
	type flusher interface {
		Flush(ctx context.Context) (bool, error)
	}
	if f, ok := s.Writer.(flusher); ok {
		if _, err := f.Flush(ctx); err != nil {
			return fmt.Errorf("stage: ship final flush: %w", err)
		}
	}
	return nil
}
