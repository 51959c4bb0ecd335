package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"legal-assistant/internal/config"
	"legal-assistant/internal/embedding"
	"legal-assistant/internal/models"
	"legal-assistant/internal/parser"
)

// Indexer is the write surface of the vector store used by ingestion.
type Indexer interface {
	Add(ctx context.Context, chunkEmbeddings []models.ChunkEmbedding) error
}

// Result reports what a run ingested.
type Result struct {
	Files  int
	Chunks int
}

// Run walks the configured documents directory, parses every supported
// file into chunks, embeds them and stores them in the index.
func Run(ctx context.Context, cfg *config.Config, embedder embedding.Embedder, store Indexer) (Result, error) {
	var res Result

	entries, err := os.ReadDir(cfg.RAG.DocsDir)
	if err != nil {
		return res, fmt.Errorf("failed to read docs dir %s: %v", cfg.RAG.DocsDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !parser.SupportedExt(filepath.Ext(entry.Name())) {
			continue
		}
		path := filepath.Join(cfg.RAG.DocsDir, entry.Name())

		chunks, err := parser.Parse(path, cfg)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Error parsing document")
			continue
		}

		chunkEmbeddings, err := embedding.EmbedChunks(ctx, embedder, entry.Name(), chunks)
		if err != nil {
			return res, fmt.Errorf("failed to embed %s: %v", entry.Name(), err)
		}

		if err := store.Add(ctx, chunkEmbeddings); err != nil {
			return res, fmt.Errorf("failed to index %s: %v", entry.Name(), err)
		}

		res.Files++
		res.Chunks += len(chunkEmbeddings)
		log.Info().Str("file", entry.Name()).Int("chunks", len(chunkEmbeddings)).Msg("Ingested document")
	}

	if res.Files == 0 {
		log.Warn().Str("dir", cfg.RAG.DocsDir).Msg("No supported documents found")
	}
	return res, nil
}
