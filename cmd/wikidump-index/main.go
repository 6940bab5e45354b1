// Command wikidump-index runs Stage C (textify, chunk, embed, ship) over a
// dump file, writing chunks into the configured keyword and/or vector
// index.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"wikidump/internal/batchwriter"
	"wikidump/internal/config"
	"wikidump/internal/dumpreader"
	"wikidump/internal/embedder"
	"wikidump/internal/index"
	"wikidump/internal/observability"
	"wikidump/internal/stage"
	"wikidump/internal/store"
	"wikidump/internal/textify"
	"wikidump/internal/tokenizer"
	"wikidump/internal/version"
)

func localePack(locale string) textify.LocalePack {
	switch locale {
	case "", "en":
		return textify.EnglishPack{}
	default:
		log.Fatalf("no locale pack registered for %q", locale)
		return nil
	}
}

func main() {
	log.SetFlags(0)
	var (
		dumpPath = flag.String("dump", "", "override DUMP_PATH")
		showVer  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		log.Println(version.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dumpPath != "" {
		cfg.Dump.Path = *dumpPath
	}
	if cfg.Dump.Path == "" {
		log.Fatal("no dump path; set DUMP_PATH or pass -dump")
	}

	observability.InitLogger(cfg.Logging.Path, cfg.Logging.Level)
	logger := observability.For("wikidump-index")

	ctx := context.Background()

	idPool, err := store.OpenPool(ctx, cfg.Stores.IDStore.DSN)
	if err != nil {
		log.Fatalf("open id store pool: %v", err)
	}
	defer idPool.Close()
	idStore, err := store.NewIdStore(ctx, idPool)
	if err != nil {
		log.Fatalf("open id store: %v", err)
	}

	langPool, err := store.OpenPool(ctx, cfg.Stores.LangStore.DSN)
	if err != nil {
		log.Fatalf("open lang store pool: %v", err)
	}
	defer langPool.Close()
	langStore, err := store.NewLangStore(ctx, langPool)
	if err != nil {
		log.Fatalf("open lang store: %v", err)
	}

	cachePool, err := store.OpenPool(ctx, cfg.Stores.EmbedCache.DSN)
	if err != nil {
		log.Fatalf("open embed cache pool: %v", err)
	}
	defer cachePool.Close()
	embedCache, err := store.NewEmbedCache(ctx, cachePool)
	if err != nil {
		log.Fatalf("open embed cache: %v", err)
	}

	var vectorStore index.VectorStore
	if cfg.Qdrant.Enabled {
		vectorStore, err = index.NewQdrantVector(cfg.Qdrant.DSN, cfg.Qdrant.Collection, cfg.Embedding.Dimensions, cfg.Qdrant.Metric)
		if err != nil {
			log.Fatalf("open qdrant vector store: %v", err)
		}
	} else {
		vectorPool, err := store.OpenPool(ctx, cfg.Stores.Vector.DSN)
		if err != nil {
			log.Fatalf("open vector store pool: %v", err)
		}
		defer vectorPool.Close()
		vectorStore, err = index.NewPostgresVector(ctx, vectorPool, cfg.Embedding.Dimensions, cfg.Qdrant.Metric)
		if err != nil {
			log.Fatalf("open postgres vector store: %v", err)
		}
	}

	var fullText index.FullTextSearch
	if cfg.Stores.Search.DSN != "" {
		searchPool, err := store.OpenPool(ctx, cfg.Stores.Search.DSN)
		if err != nil {
			log.Fatalf("open search pool: %v", err)
		}
		defer searchPool.Close()
		fullText, err = index.NewPostgresFullText(ctx, searchPool)
		if err != nil {
			log.Fatalf("open full text search: %v", err)
		}
	}

	emb := embedder.NewHTTP(cfg.Embedding)
	writer := batchwriter.New(embedCache, emb, vectorStore, fullText, cfg.Bulk.EmbedBatch)

	pack := localePack(cfg.Lang.Locale)
	textifier := textify.NewTextifier(cfg.Lang.Language, pack, langStore)

	ship := stage.NewShip(idStore, langStore, writer, textifier, tokenizer.Heuristic{}, cfg.Tokenizer.MaxLength, cfg.Lang.Language, cfg.Dump.DumpDate)

	reader := dumpreader.New(cfg.Dump.Path, dumpreader.Options{
		Workers:      cfg.Workers.Count,
		QueueSize:    cfg.Workers.QueueSize,
		SkipLines:    cfg.Dump.SkipLines,
		ReportPeriod: time.Duration(cfg.Workers.ReportPeriod) * time.Second,
		Logger:       logger,
	})

	if err := reader.Run(ctx, ship.Handle); err != nil {
		log.Fatalf("stage C: %v", err)
	}
	if err := ship.Close(ctx); err != nil {
		log.Fatalf("stage C final flush: %v", err)
	}
}
