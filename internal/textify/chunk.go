package textify

import (
	"context"

	"wikidump/internal/tokenizer"
	"wikidump/internal/wikidata"
)

// ChunkText splits an entity's rendered text into pieces that each fit
// within maxLength tokens of tok, grounded on the original chunk_text
// greedy-packing algorithm: properties are added to the current chunk one
// at a time, in dump order, until adding one would overflow the budget; at
// that point the chunk-so-far together with the overflowing property is
// flushed, cut to its first maxLength tokens, and the overflowing property
// starts the next chunk (or, if it overflowed an empty chunk on its own,
// the next chunk starts empty).
func (t *Textifier) ChunkText(ctx context.Context, e wikidata.LangEntity, tok tokenizer.Tokenizer, maxLength int) ([]string, error) {
	fullText, err := t.EntityToText(ctx, e, nil)
	if err != nil {
		return nil, err
	}
	ids, _, err := tok.Tokenize(fullText)
	if err != nil {
		return nil, err
	}
	if len(ids) < maxLength {
		return []string{fullText}, nil
	}

	// Label + description (no properties) already at or over budget: the
	// whole entity is truncated to one chunk, with no attribute text.
	descText, err := t.EntityToText(ctx, e, []PropertyEntry{})
	if err != nil {
		return nil, err
	}
	descIDs, descOffsets, err := tok.Tokenize(descText)
	if err != nil {
		return nil, err
	}
	if len(descIDs) >= maxLength {
		start, end := descOffsets[0][0], descOffsets[maxLength-1][1]
		return []string{fullText[start:end]}, nil
	}

	properties, err := PropertiesToDict(ctx, e.Claims, t.Lang, t.Pack, t.Lookup)
	if err != nil {
		return nil, err
	}

	var chunks []string
	var chunkProps []PropertyEntry
	for _, prop := range properties {
		current := append(append([]PropertyEntry{}, chunkProps...), prop)
		text, err := t.EntityToText(ctx, e, current)
		if err != nil {
			return nil, err
		}
		tids, toffsets, err := tok.Tokenize(text)
		if err != nil {
			return nil, err
		}
		if len(tids) >= maxLength {
			start, end := toffsets[0][0], toffsets[maxLength-1][1]
			chunks = append(chunks, text[start:end])
			if len(chunkProps) == 0 {
				chunkProps = nil
			} else {
				chunkProps = []PropertyEntry{prop}
			}
		} else {
			chunkProps = current
		}
	}

	if len(chunkProps) > 0 {
		text, err := t.EntityToText(ctx, e, chunkProps)
		if err != nil {
			return nil, err
		}
		tids, toffsets, err := tok.Tokenize(text)
		if err != nil {
			return nil, err
		}
		var start, end int
		if len(tids) >= maxLength {
			start, end = toffsets[0][0], toffsets[maxLength-1][1]
		} else {
			start, end = toffsets[0][0], toffsets[len(toffsets)-1][1]
		}
		chunks = append(chunks, text[start:end])
	}

	return chunks, nil
}
