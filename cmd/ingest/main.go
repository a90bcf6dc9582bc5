// Command ingest seeds one tenant's corpus from a JSON documents file.
// Each entry is {"content": "...", "metadata": {...}}; the content is
// embedded and the document inserted into the tenant's embeddings table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/nusanet/nusarag/app"
	"github.com/nusanet/nusarag/config"
	"github.com/nusanet/nusarag/internal/observability"
	"github.com/nusanet/nusarag/models"
	"go.uber.org/zap"
)

type inputDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func main() {
	var (
		tenantFlag = flag.String("tenant", string(models.TenantNusawork), "tenant corpus to ingest into")
		fileFlag   = flag.String("file", "", "path to a JSON array of documents")
	)
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("usage: ingest -tenant <tenant> -file <documents.json>")
	}

	tenant, err := models.ParseTenant(*tenantFlag)
	if err != nil {
		log.Fatalf("invalid tenant: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, tenant, *fileFlag); err != nil {
		logger.Fatal("ingest failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, tenant models.Tenant, path string) error {
	ctx := context.Background()

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	table, err := deps.Registry.Resolve(tenant)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var inputs []inputDocument
	if err := json.Unmarshal(data, &inputs); err != nil {
		return err
	}

	docs := make([]models.Document, 0, len(inputs))
	for _, in := range inputs {
		vector, err := deps.Embedder.Embed(ctx, in.Content)
		if err != nil {
			return err
		}
		docs = append(docs, models.Document{
			ID:        uuid.New(),
			Content:   in.Content,
			Metadata:  in.Metadata,
			Embedding: vector,
		})
	}

	if err := deps.Vectors.InsertDocuments(ctx, table, docs); err != nil {
		return err
	}

	logger.Info("ingest completed",
		zap.String("tenant", string(tenant)),
		zap.Int("documents", len(docs)))
	return nil
}
