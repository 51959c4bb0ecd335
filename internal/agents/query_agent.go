package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"legal-assistant/internal/embedding"
	"legal-assistant/internal/models"
)

// ErrEmptyIndex signals that retrieval ran against an empty document index.
var ErrEmptyIndex = errors.New("document index is empty")

// Retriever is the vector index surface the query agent needs. Both the
// chromem and the postgres stores satisfy it.
type Retriever interface {
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]models.SearchResult, error)
	Count() int
}

// RetrievalContext is what the query agent hands to the summary agent:
// the retrieved chunks, the assembled context string and the query
// classifications.
type RetrievalContext struct {
	Results      []models.SearchResult
	Context      string
	IsLegal      bool
	IsProcedural bool
}

// QueryAgent embeds an incoming question and retrieves the nearest chunks.
type QueryAgent struct {
	embedder embedding.Embedder
	store    Retriever
	topK     int
}

func NewQueryAgent(embedder embedding.Embedder, store Retriever, topK int) *QueryAgent {
	if topK <= 0 {
		topK = 3
	}
	return &QueryAgent{embedder: embedder, store: store, topK: topK}
}

// Process embeds the query, runs the top-k similarity lookup and
// classifies the question.
func (a *QueryAgent) Process(ctx context.Context, query string) (*RetrievalContext, error) {
	if a.store.Count() == 0 {
		return nil, ErrEmptyIndex
	}

	queryEmbedding, err := a.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	results, err := a.store.Search(ctx, queryEmbedding, a.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %v", err)
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString(models.ContextSeparator)
		}
		b.WriteString(r.Content)
	}

	rc := &RetrievalContext{
		Results:      results,
		Context:      b.String(),
		IsLegal:      IsLegalQuery(query),
		IsProcedural: IsProceduralQuery(query),
	}

	log.Debug().
		Int("results", len(results)).
		Bool("is_legal", rc.IsLegal).
		Bool("is_procedural", rc.IsProcedural).
		Msg("Query processed")

	return rc, nil
}

var (
	wordRe = regexp.MustCompile(`[a-z]+`)

	legalKeywords = map[string]struct{}{
		"law": {}, "legal": {}, "court": {}, "judge": {}, "lawyer": {},
		"advocate": {}, "act": {}, "section": {}, "ipc": {}, "crpc": {},
		"lawsuit": {}, "sue": {}, "petition": {}, "bail": {}, "fir": {},
		"divorce": {}, "custody": {}, "property": {}, "contract": {},
		"tenant": {}, "landlord": {}, "rights": {}, "notice": {},
		"appeal": {}, "penalty": {}, "fine": {}, "arrest": {}, "will": {},
		"inheritance": {}, "registration": {}, "complaint": {},
	}

	proceduralKeywords = map[string]struct{}{
		"how": {}, "steps": {}, "step": {}, "process": {}, "procedure": {},
		"file": {}, "filing": {}, "apply": {}, "applying": {},
		"register": {}, "obtain": {}, "submit": {}, "renew": {},
	}

	proceduralPhrases = []string{
		"how to", "how do i", "how can i", "what is the process",
		"what are the steps", "procedure for", "steps involved",
	}
)

// IsLegalQuery reports whether the question looks like a legal question,
// based on keyword heuristics.
func IsLegalQuery(query string) bool {
	for _, tok := range wordRe.FindAllString(strings.ToLower(query), -1) {
		if _, ok := legalKeywords[tok]; ok {
			return true
		}
	}
	return false
}

// IsProceduralQuery reports whether the question asks about a procedure
// or process rather than a definition or explanation.
func IsProceduralQuery(query string) bool {
	q := strings.ToLower(query)
	for _, p := range proceduralPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	for _, tok := range wordRe.FindAllString(q, -1) {
		if _, ok := proceduralKeywords[tok]; ok {
			return true
		}
	}
	return false
}
