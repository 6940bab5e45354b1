// Package dumpreader streams a Wikidata JSON dump under backpressure.
//
// The dump is a JSON array serialized one element per line, typically
// wrapped in "[" / "]" bracket lines with trailing commas, and compressed
// with gzip or bzip2. Reader maps the producer/consumer/reporter design of
// the original implementation onto goroutines and a single buffered
// channel: one producer goroutine reads and feeds raw lines, N consumer
// goroutines parse and dispatch them, and an optional reporter goroutine
// logs throughput. Backpressure comes entirely from the channel's bounded
// capacity; completion is signaled by closing it.
package dumpreader

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"wikidump/internal/wikidata"
)

// ErrUnsupportedExtension is returned when the dump path has no supported
// decompressor (.json, .json.gz, .json.bz2).
var ErrUnsupportedExtension = errors.New("dumpreader: unsupported file extension")

// Options configures a Reader's concurrency and reporting behavior.
type Options struct {
	Workers      int           // number of consumer goroutines, >= 1
	QueueSize    int           // bounded channel capacity
	SkipLines    int           // lines to discard before the first parsed line
	MaxItems     int64         // 0 = unlimited; stop producing once reached
	ReportPeriod time.Duration // 0 disables the reporter goroutine
	Logger       zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1000
	}
	return o
}

// Handler is invoked once per successfully parsed entity, from one of the
// consumer goroutines; it must be safe for concurrent use. A non-nil error
// is treated as fatal: Run stops as soon as possible and returns it.
type Handler func(*wikidata.Entity) error

// Reader streams entities out of a single dump file.
type Reader struct {
	path string
	opts Options
}

// New constructs a Reader for path with the given options.
func New(path string, opts Options) *Reader {
	return &Reader{path: path, opts: opts.withDefaults()}
}

// Run opens the dump, launches the producer/consumer/reporter goroutines,
// and blocks until the file is exhausted (or MaxItems lines after SkipLines
// have been queued), the queue is drained, and every worker is idle.
// MaxItems counts queued lines, not parsed entities: bracket lines and
// malformed lines count toward it. It returns the first fatal error
// encountered: a file-open/decompression failure, an unsupported extension,
// or the first error returned by handler. Malformed JSON lines are never
// fatal; they are logged and skipped.
func (r *Reader) Run(ctx context.Context, handler Handler) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("dumpreader: open %q: %w", r.path, err)
	}
	defer f.Close()

	scanner, err := newLineScanner(r.path, f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string, r.opts.QueueSize)
	var parsed atomic.Int64
	var fatalErr atomic.Pointer[error]
	setFatal := func(e error) {
		if e == nil {
			return
		}
		if fatalErr.CompareAndSwap(nil, &e) {
			cancel()
		}
	}

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	go func() {
		defer producerWG.Done()
		defer close(lines)
		r.produce(ctx, scanner, lines)
	}()

	var consumerWG sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		consumerWG.Add(1)
		go func() {
			defer consumerWG.Done()
			r.consume(ctx, lines, handler, &parsed, setFatal)
		}()
	}

	reporterDone := make(chan struct{})
	if r.opts.ReportPeriod > 0 {
		go r.report(ctx, &parsed, reporterDone)
	} else {
		close(reporterDone)
	}

	producerWG.Wait()
	consumerWG.Wait()
	cancel()
	<-reporterDone

	if p := fatalErr.Load(); p != nil {
		return *p
	}
	return nil
}

func (r *Reader) produce(ctx context.Context, scanner *bufio.Scanner, lines chan<- string) {
	skipped := 0
	var count int64
	for scanner.Scan() {
		if skipped < r.opts.SkipLines {
			skipped++
			continue
		}
		if r.opts.MaxItems > 0 && count >= r.opts.MaxItems {
			return
		}
		select {
		case <-ctx.Done():
			return
		case lines <- scanner.Text():
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		r.opts.Logger.Error().Err(err).Msg("dumpreader: scan error")
	}
}

func (r *Reader) consume(ctx context.Context, lines <-chan string, handler Handler, parsed *atomic.Int64, setFatal func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			entity, ok := lineToEntity(line)
			if !ok {
				if strings.Trim(line, "[] ,\n\r\t") != "" {
					r.opts.Logger.Warn().Msg("dumpreader: skipping malformed line")
				}
				continue
			}
			if err := handler(entity); err != nil {
				setFatal(fmt.Errorf("dumpreader: handler: %w", err))
				return
			}
			parsed.Add(1)
		}
	}
}

func (r *Reader) report(ctx context.Context, parsed *atomic.Int64, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.opts.ReportPeriod)
	defer ticker.Stop()
	var last int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := parsed.Load()
			rate := float64(n-last) / r.opts.ReportPeriod.Seconds()
			r.opts.Logger.Info().Int64("parsed_total", n).Float64("entities_per_sec", rate).Msg("dumpreader: progress")
			last = n
		}
	}
}

// lineToEntity strips surrounding array syntax ("[", "]", ",") and decodes
// the remaining JSON object. Empty lines and JSON decode failures are
// reported as ok=false so the caller can skip them without treating the
// stream as corrupted.
func lineToEntity(line string) (*wikidata.Entity, bool) {
	trimmed := strings.Trim(line, "[] ,\n\r\t")
	if trimmed == "" {
		return nil, false
	}
	var e wikidata.Entity
	if err := json.Unmarshal([]byte(trimmed), &e); err != nil {
		return nil, false
	}
	return &e, true
}

// newLineScanner opens a line-oriented reader over path, choosing a
// decompressor from its extension.
func newLineScanner(path string, f *os.File) (*bufio.Scanner, error) {
	var r io.Reader
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dumpreader: gzip init: %w", err)
		}
		r = gz
	case strings.HasSuffix(path, ".bz2"):
		r = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".json"):
		r = f
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, path)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return scanner, nil
}
