// Command meilisearch indexes a JSON document file and runs one search
// query against it, printing the result to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/prabhjot018/meilisearch/internal/config"
	dbRedis "github.com/prabhjot018/meilisearch/internal/db/redis"
	"github.com/prabhjot018/meilisearch/internal/domain/search/query"
	logpkg "github.com/prabhjot018/meilisearch/internal/logger"
	"github.com/prabhjot018/meilisearch/internal/metrics"
	documentrepo "github.com/prabhjot018/meilisearch/internal/repository/document"
	"github.com/prabhjot018/meilisearch/internal/repository/memindex"
	"github.com/prabhjot018/meilisearch/internal/usecase/search"
	"github.com/prabhjot018/meilisearch/internal/version"
)

func main() {
	indexName := flag.String("index", "default", "index name")
	documentsPath := flag.String("documents", "", "path to a JSON array of documents")
	queryJSON := flag.String("query", "{}", "search request as a JSON object")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting search",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("index", *indexName),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	metrics.RegisterSearchMetrics()

	// Records live in Redis when addrs are configured, in memory otherwise.
	var opts []memindex.Option
	if len(cfg.Database.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
		opts = append(opts, memindex.WithDocumentStore(documentrepo.New(store, *indexName)))
	}

	index := memindex.New(opts...)
	if *documentsPath != "" {
		n, err := ingest(ctx, index, *documentsPath)
		if err != nil {
			logger.Fatal("Failed to index documents", zap.Error(err))
		}
		logger.Info("Indexed documents", zap.Int("count", n))
	}

	defaults := query.Defaults{
		Limit:            cfg.Search.DefaultLimit,
		CropLength:       cfg.Search.DefaultCropLength,
		CropMarker:       cfg.Search.CropMarker,
		HighlightPreTag:  cfg.Search.HighlightPreTag,
		HighlightPostTag: cfg.Search.HighlightPostTag,
	}
	q, err := query.Decode([]byte(*queryJSON), defaults)
	if err != nil {
		logger.Fatal("Invalid query", zap.Error(err))
	}

	svc := search.New(index)
	result, err := svc.Search(ctx, q)
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}

func ingest(ctx context.Context, index *memindex.Index, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, doc := range docs {
		if _, err := index.AddDocument(ctx, doc); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}
