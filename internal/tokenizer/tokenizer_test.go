package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeuristic_OffsetsMatchSubstrings(t *testing.T) {
	text := "Universe, totality of space and time."
	ids, offsets, err := Heuristic{}.Tokenize(text)
	require.NoError(t, err)
	require.Len(t, ids, len(offsets))
	require.NotEmpty(t, offsets)
	for _, off := range offsets {
		require.True(t, off[0] <= off[1])
		require.True(t, off[1] <= len(text))
	}
	require.Equal(t, "Universe", text[offsets[0][0]:offsets[0][1]])
}

func TestHeuristic_EmptyText(t *testing.T) {
	ids, offsets, err := Heuristic{}.Tokenize("")
	require.NoError(t, err)
	require.Empty(t, ids)
	require.Empty(t, offsets)
}
