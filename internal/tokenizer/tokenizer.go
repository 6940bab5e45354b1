// Package tokenizer defines the token-counting contract Textifier's chunker
// needs: token ids plus a byte-accurate offset mapping back into the source
// string, so a chunk boundary can be computed as a character slice.
package tokenizer

import "unicode"

// Tokenizer turns text into token ids and the (start, end) byte offsets each
// token came from. offsets[i] = [start, end) into the original string,
// mirroring a subword tokenizer's offset_mapping output.
type Tokenizer interface {
	Tokenize(text string) (ids []int, offsets [][2]int, err error)
}

// Heuristic is a dependency-free Tokenizer approximating subword tokenizer
// behavior closely enough for chunk budgeting: it splits on whitespace and
// punctuation boundaries, counting each run of letters/digits and each
// punctuation rune as one token. This is the fallback used when no real
// model tokenizer is configured.
type Heuristic struct{}

func (Heuristic) Tokenize(text string) ([]int, [][2]int, error) {
	runes := []rune(text)
	var ids []int
	var offsets [][2]int

	byteOffsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		byteOffsets[i] = pos
		pos += len(string(r))
	}
	byteOffsets[len(runes)] = pos

	i := 0
	tok := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsPunct(r):
			offsets = append(offsets, [2]int{byteOffsets[i], byteOffsets[i+1]})
			ids = append(ids, tok)
			tok++
			i++
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && !unicode.IsPunct(runes[i]) {
				i++
			}
			offsets = append(offsets, [2]int{byteOffsets[start], byteOffsets[i]})
			ids = append(ids, tok)
			tok++
		}
	}
	return ids, offsets, nil
}
