package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-assistant/internal/models"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeRetriever struct {
	results []models.SearchResult
	count   int
	err     error
	gotK    int
}

func (f *fakeRetriever) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]models.SearchResult, error) {
	f.gotK = topK
	return f.results, f.err
}

func (f *fakeRetriever) Count() int { return f.count }

func TestQueryAgentProcess(t *testing.T) {
	store := &fakeRetriever{
		count: 2,
		results: []models.SearchResult{
			{Content: "A suit is instituted by presenting a plaint.", SourceFilename: "cpc.pdf", Similarity: 0.91},
			{Content: "Court fees must accompany the plaint.", SourceFilename: "cpc.pdf", Similarity: 0.84},
		},
	}
	agent := NewQueryAgent(&fakeEmbedder{vec: []float32{0.1, 0.2}}, store, 3)

	rc, err := agent.Process(context.Background(), "How do I file a lawsuit?")
	require.NoError(t, err)

	assert.Len(t, rc.Results, 2)
	assert.Equal(t, 3, store.gotK)
	assert.Equal(t,
		"A suit is instituted by presenting a plaint."+models.ContextSeparator+"Court fees must accompany the plaint.",
		rc.Context)
	assert.True(t, rc.IsLegal)
	assert.True(t, rc.IsProcedural)
}

func TestQueryAgentEmptyIndex(t *testing.T) {
	agent := NewQueryAgent(&fakeEmbedder{vec: []float32{1}}, &fakeRetriever{count: 0}, 3)

	_, err := agent.Process(context.Background(), "What is bail?")
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestQueryAgentEmbedError(t *testing.T) {
	agent := NewQueryAgent(&fakeEmbedder{err: errors.New("embedding service down")}, &fakeRetriever{count: 1}, 3)

	_, err := agent.Process(context.Background(), "What is bail?")
	assert.Error(t, err)
}

func TestQueryAgentSearchError(t *testing.T) {
	store := &fakeRetriever{count: 1, err: errors.New("index unavailable")}
	agent := NewQueryAgent(&fakeEmbedder{vec: []float32{1}}, store, 3)

	_, err := agent.Process(context.Background(), "What is bail?")
	assert.Error(t, err)
}

func TestQueryAgentDefaultTopK(t *testing.T) {
	store := &fakeRetriever{count: 1}
	agent := NewQueryAgent(&fakeEmbedder{vec: []float32{1}}, store, 0)

	_, err := agent.Process(context.Background(), "anything legal")
	require.NoError(t, err)
	assert.Equal(t, 3, store.gotK)
}

func TestIsLegalQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"What are the steps involved in filing a lawsuit in India?", true},
		{"How do I get bail?", true},
		{"Explain Section 420 of the IPC", true},
		{"What rights does a tenant have?", true},
		{"What's a good recipe for biryani?", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLegalQuery(tt.query))
		})
	}
}

func TestIsProceduralQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"How to file an FIR?", true},
		{"What is the process for registering a marriage?", true},
		{"Steps involved in obtaining a passport", true},
		{"What is bail?", false},
		{"Define culpable homicide", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProceduralQuery(tt.query))
		})
	}
}
