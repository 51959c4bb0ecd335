package chromemdb

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"

	"legal-assistant/internal/models"
)

const compress = false

// Store wraps a chromem-go collection holding document chunks and their
// embeddings. It is the default vector index backend.
type Store struct {
	db             *chromem.DB
	collection     *chromem.Collection
	collectionName string
}

// NewStore opens (or creates) the vector database at dbPath and the named
// collection. With inMemory set, nothing is persisted.
func NewStore(dbPath, collectionName string, inMemory bool) (*Store, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	s := &Store{db: db, collectionName: collectionName}
	if err := s.openCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) openCollection() error {
	c, err := s.db.GetOrCreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create/get collection: %v", err)
	}
	s.collection = c
	return nil
}

// Add stores the chunk embeddings. Document IDs encode source file, page
// and chunk index so re-ingesting a file recreates the same identities.
func (s *Store) Add(ctx context.Context, chunkEmbeddings []models.ChunkEmbedding) error {
	if len(chunkEmbeddings) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(chunkEmbeddings))
	for _, ce := range chunkEmbeddings {
		docs = append(docs, chromem.Document{
			ID:        DocumentID(ce.SourceFilename, ce.PageNumber, ce.ChunkID),
			Content:   ce.Content,
			Embedding: ce.Embedding,
			Metadata: map[string]string{
				"source_filename": ce.SourceFilename,
				"page_number":     strconv.Itoa(ce.PageNumber),
				"chunk_id":        strconv.Itoa(ce.ChunkID),
			},
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns up to topK chunks nearest the query embedding, ordered by
// similarity descending.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]models.SearchResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		pageNumber, _ := strconv.Atoi(r.Metadata["page_number"])
		chunkID, _ := strconv.Atoi(r.Metadata["chunk_id"])
		out = append(out, models.SearchResult{
			Content:        r.Content,
			SourceFilename: r.Metadata["source_filename"],
			PageNumber:     pageNumber,
			ChunkID:        chunkID,
			Similarity:     r.Similarity,
		})
	}
	return out, nil
}

// Count reports the number of indexed chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Reset drops and recreates the collection, used before re-ingestion.
func (s *Store) Reset() error {
	if err := s.db.DeleteCollection(s.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	return s.openCollection()
}

// DocumentID builds the stable chunk identity used in the index.
func DocumentID(sourceFilename string, pageNumber, chunkID int) string {
	stem := strings.TrimSuffix(filepath.Base(sourceFilename), filepath.Ext(sourceFilename))
	return fmt.Sprintf("%s_p%d_chunk_%d", stem, pageNumber, chunkID)
}
