// Command wikidump-langs runs Stage B (language projection) over a dump
// file, reading each entity's IdStore record to decide whether it
// qualifies, then writing its per-language projection into LangStore.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"wikidump/internal/config"
	"wikidump/internal/dumpreader"
	"wikidump/internal/observability"
	"wikidump/internal/stage"
	"wikidump/internal/store"
	"wikidump/internal/version"
)

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
	logger := observability.For("wikidump-langs")

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

	projection := stage.NewLangProjection(idStore, langStore, cfg.Lang.Language, cfg.Bulk.LangBatch)

	reader := dumpreader.New(cfg.Dump.Path, dumpreader.Options{
		Workers:      cfg.Workers.Count,
		QueueSize:    cfg.Workers.QueueSize,
		SkipLines:    cfg.Dump.SkipLines,
		ReportPeriod: time.Duration(cfg.Workers.ReportPeriod) * time.Second,
		Logger:       logger,
	})

	if err := reader.Run(ctx, projection.Handle); err != nil {
		log.Fatalf("stage B: %v", err)
	}
	if err := projection.Close(ctx); err != nil {
		log.Fatalf("stage B final flush: %v", err)
	}
}
