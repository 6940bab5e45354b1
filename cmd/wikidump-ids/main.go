// Command wikidump-ids runs Stage A (ID discovery) over a dump file,
// writing every discovered identifier into IdStore.
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
	logger := observability.For("wikidump-ids")

	ctx := context.Background()
	pool, err := store.OpenPool(ctx, cfg.Stores.IDStore.DSN)
	if err != nil {
		log.Fatalf("open id store pool: %v", err)
	}
	defer pool.Close()

	idStore, err := store.NewIdStore(ctx, pool)
	if err != nil {
		log.Fatalf("open id store: %v", err)
	}

	discovery := stage.NewIDDiscovery(idStore, cfg.Lang.Language, cfg.Bulk.IDBatch)

	reader := dumpreader.New(cfg.Dump.Path, dumpreader.Options{
		Workers:      cfg.Workers.Count,
		QueueSize:    cfg.Workers.QueueSize,
		SkipLines:    cfg.Dump.SkipLines,
		ReportPeriod: time.Duration(cfg.Workers.ReportPeriod) * time.Second,
		Logger:       logger,
	})

	if err := reader.Run(ctx, discovery.Handle); err != nil {
		log.Fatalf("stage A: %v", err)
	}
	if err := discovery.Close(ctx); err != nil {
		log.Fatalf("stage A final flush: %v", err)
	}
}
