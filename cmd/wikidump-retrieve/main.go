// Command wikidump-retrieve runs batch similarity queries against the
// configured index backend (dense vector or keyword) and prints the
// ranked ids and scores as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"wikidump/internal/config"
	"wikidump/internal/embedder"
	"wikidump/internal/index"
	"wikidump/internal/retrieve"
	"wikidump/internal/store"
	"wikidump/internal/version"
)

func main() {
	log.SetFlags(0)
	var (
		query    = flag.String("query", "", "query text")
		k        = flag.Int("k", 10, "number of results")
		language = flag.String("language", "", "comma-separated language filter")
		keyword  = flag.Bool("keyword", false, "use the keyword backend instead of the vector backend")
		showVer  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		log.Println(version.Version)
		return
	}
	if *query == "" {
		log.Fatal("no query provided; use -query")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var backend retrieve.Backend
	if *keyword {
		searchPool, err := store.OpenPool(ctx, cfg.Stores.Search.DSN)
		if err != nil {
			log.Fatalf("open search pool: %v", err)
		}
		defer searchPool.Close()
		fullText, err := index.NewPostgresFullText(ctx, searchPool)
		if err != nil {
			log.Fatalf("open full text search: %v", err)
		}
		backend = &retrieve.KeywordBackend{Search: fullText}
	} else {
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
		backend = &retrieve.VectorBackend{Store: vectorStore, Embedder: embedder.NewHTTP(cfg.Embedding)}
	}

	retriever := retrieve.New(backend)
	results, err := retriever.BatchRetrieve(ctx, []string{*query}, *k, *language)
	if err != nil {
		log.Fatalf("retrieve: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results[0]); err != nil {
		log.Fatalf("encode results: %v", err)
	}
}
