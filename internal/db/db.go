package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"legal-assistant/internal/config"
	"legal-assistant/internal/models"
)

// Document is a stored chunk row in the pgvector-backed table.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Content        string    `bun:"content,notnull"`
	Embedding      []float32 `bun:"embedding,notnull,type:vector(768)"`
	SourceFilename string    `bun:"source_filename,notnull"`
	PageNumber     int       `bun:"page_number"`
	ChunkID        int       `bun:"chunk_id"`
	Distance       float64   `bun:"distance,scanonly"`
}

// Store is the pgvector alternative to the chromem index, selected with
// store.type: postgres.
type Store struct {
	db *bun.DB
}

// Connect opens the database and prepares the documents table.
func Connect(ctx context.Context, cfg *config.StoreConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required for the postgres backend")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %v", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores the chunk embeddings as rows.
func (s *Store) Add(ctx context.Context, chunkEmbeddings []models.ChunkEmbedding) error {
	if len(chunkEmbeddings) == 0 {
		return nil
	}
	docs := make([]Document, len(chunkEmbeddings))
	for i, ce := range chunkEmbeddings {
		docs[i] = Document{
			Content:        ce.Content,
			Embedding:      ce.Embedding,
			SourceFilename: ce.SourceFilename,
			PageNumber:     ce.PageNumber,
			ChunkID:        ce.ChunkID,
		}
	}
	if _, err := s.db.NewInsert().Model(&docs).Exec(ctx); err != nil {
		return fmt.Errorf("failed to store documents: %v", err)
	}
	return nil
}

// Search returns up to topK rows nearest the query embedding by cosine
// distance, mapped to similarity descending.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]models.SearchResult, error) {
	var docs []Document
	err := s.db.NewSelect().
		Model(&docs).
		ColumnExpr("d.*").
		ColumnExpr("embedding <=> ? AS distance", queryEmbedding).
		OrderExpr("embedding <=> ?", queryEmbedding).
		Limit(topK).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %v", err)
	}

	out := make([]models.SearchResult, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.SearchResult{
			Content:        d.Content,
			SourceFilename: d.SourceFilename,
			PageNumber:     d.PageNumber,
			ChunkID:        d.ChunkID,
			// cosine distance to similarity
			Similarity: float32(1 - d.Distance),
		})
	}
	return out, nil
}

// Count reports the number of indexed chunks; 0 when the table is
// unreachable.
func (s *Store) Count() int {
	n, err := s.db.NewSelect().Model((*Document)(nil)).Count(context.Background())
	if err != nil {
		return 0
	}
	return n
}

// Reset drops all stored chunks before re-ingestion.
func (s *Store) Reset() error {
	ctx := context.Background()
	if _, err := s.db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop documents table: %v", err)
	}
	return s.init(ctx)
}
