package dumpreader

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wikidump/internal/wikidata"
)

func writeDump(t *testing.T, dir, name string, lines []string, gzip_ bool) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var w io.Writer = f
	if gzip_ {
		gw := gzip.NewWriter(f)
		defer gw.Close()
		w = gw
	}
	for _, l := range lines {
		_, err := w.Write([]byte(l + "\n"))
		require.NoError(t, err)
	}
	return path
}

func TestRun_ParsesPlainJSONArray(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		`[`,
		`{"id":"Q1","labels":{"en":{"language":"en","value":"Universe"}}},`,
		`{"id":"Q2","labels":{"en":{"language":"en","value":"Earth"}}}`,
		`]`,
	}
	path := writeDump(t, dir, "dump.json", lines, false)

	var mu sync.Mutex
	var seen []string
	r := New(path, Options{Workers: 2, QueueSize: 4})
	err := r.Run(context.Background(), func(e *wikidata.Entity) error {
		mu.Lock()
		seen = append(seen, e.ID)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Q1", "Q2"}, seen)
}

func TestRun_GzipAndSkipLines(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		`[`,
		`{"id":"Q1"},`,
		`{"id":"Q2"}`,
		`]`,
	}
	path := writeDump(t, dir, "dump.json.gz", lines, true)

	var count atomic.Int64
	r := New(path, Options{Workers: 1, SkipLines: 1}) // skip the "[" line
	err := r.Run(context.Background(), func(e *wikidata.Entity) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count.Load())
}

func TestRun_SkipsMalformedLinesWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	lines := []string{`{"id":"Q1"}`, `not json`, ``, `{"id":"Q2"}`}
	path := writeDump(t, dir, "dump.json", lines, false)

	var count atomic.Int64
	r := New(path, Options{Workers: 1})
	err := r.Run(context.Background(), func(e *wikidata.Entity) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), count.Load())
}

func TestRun_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "dump.txt", []string{`{"id":"Q1"}`}, false)

	r := New(path, Options{})
	err := r.Run(context.Background(), func(e *wikidata.Entity) error { return nil })
	require.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestRun_HandlerErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	lines := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		lines = append(lines, `{"id":"Q1"}`)
	}
	path := writeDump(t, dir, "dump.json", lines, false)

	r := New(path, Options{Workers: 4})
	boom := require.New(t)
	err := r.Run(context.Background(), func(e *wikidata.Entity) error {
		return context.DeadlineExceeded
	})
	boom.Error(err)
}

func TestRun_RespectsContextCancellation(t *testing.T) {
	dir := t.TempDir()
	lines := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, `{"id":"Q1"}`)
	}
	path := writeDump(t, dir, "dump.json", lines, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	r := New(path, Options{Workers: 1, QueueSize: 1})
	_ = r.Run(ctx, func(e *wikidata.Entity) error {
		time.Sleep(time.Millisecond)
		return nil
	})
}
