package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk_IDAndMetadata(t *testing.T) {
	c := Chunk{
		Text: "Universe, totality of space and time.", MD5: "abc123",
		Label: "Universe", Description: "totality of space and time",
		Aliases: []string{"Cosmos", "The Universe"}, Date: "2026-07-31T00:00:00Z",
		QID: "Q1", ChunkID: 1, Language: "en", IsItem: true, IsProperty: false,
		DumpDate: "20260701",
	}

	require.Equal(t, "Q1_en_1", c.ID())

	md := c.Metadata()
	require.Equal(t, "Q1", md["QID"])
	require.Equal(t, "1", md["ChunkID"])
	require.Equal(t, "en", md["Language"])
	require.Equal(t, "true", md["IsItem"])
	require.Equal(t, "false", md["IsProperty"])
	require.Equal(t, "Cosmos|The Universe", md["Aliases"])
}

func TestDocumentID(t *testing.T) {
	require.Equal(t, "Q42_fr_3", DocumentID("Q42", "fr", 3))
}
