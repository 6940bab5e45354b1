// Package index holds the downstream index this pipeline writes chunks
// into: a keyword (full-text) backend and a dense vector backend, both
// keyed by the chunk document id and both Postgres-native, with Qdrant as
// the alternative vector backend.
package index

import (
	"fmt"
	"strconv"
	"strings"
)

// Chunk is one token-bounded fragment of an entity's rendered text, with
// the metadata §6 requires the index to carry alongside it.
type Chunk struct {
	Text        string
	MD5         string
	Label       string
	Description string
	Aliases     []string
	Date        string // ISO-8601 emission timestamp
	QID         string
	ChunkID     int // 1-based
	Language    string
	IsItem      bool
	IsProperty  bool
	DumpDate    string
}

// DocumentID renders the "<QID>_<Language>_<ChunkID>" document id a chunk
// is addressed by in both index backends and EmbedCache.
func DocumentID(qid, language string, chunkID int) string {
	return fmt.Sprintf("%s_%s_%d", qid, language, chunkID)
}

// ID is c's document id.
func (c Chunk) ID() string { return DocumentID(c.QID, c.Language, c.ChunkID) }

// Metadata flattens c into the string-keyed map both FullTextSearch and
// VectorStore carry alongside the text/vector.
func (c Chunk) Metadata() map[string]string {
	return map[string]string{
		"MD5":         c.MD5,
		"Label":       c.Label,
		"Description": c.Description,
		"Aliases":     strings.Join(c.Aliases, "|"),
		"Date":        c.Date,
		"QID":         c.QID,
		"ChunkID":     strconv.Itoa(c.ChunkID),
		"Language":    c.Language,
		"IsItem":      strconv.FormatBool(c.IsItem),
		"IsProperty":  strconv.FormatBool(c.IsProperty),
		"DumpDate":    c.DumpDate,
	}
}
