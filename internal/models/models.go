package models

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
}

// ChunkEmbedding is a chunk together with its embedding vector,
// ready to be stored in the vector index.
type ChunkEmbedding struct {
	Content        string
	Embedding      []float32
	SourceFilename string
	PageNumber     int
	ChunkID        int
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Content        string
	SourceFilename string
	PageNumber     int
	ChunkID        int
	Similarity     float32
}

// Source points back to the document passage an answer was drawn from.
type Source struct {
	Text      string `json:"text"`
	Document  string `json:"document"`
	Relevance string `json:"relevance"`
}

// Step is a single step in a procedural guide.
type Step struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// LegalResponse is the structured answer returned to the caller.
type LegalResponse struct {
	SimpleExplanation    string   `json:"simple_explanation"`
	KeyPoints            []string `json:"key_points"`
	ImportantTerms       []string `json:"important_terms"`
	WarningsAndDeadlines []string `json:"warnings_and_deadlines"`
	StepByStepGuide      []Step   `json:"step_by_step_guide"`
	Sources              []Source `json:"sources"`
}

// EmptyLegalResponse returns a response with all fields present but empty,
// so callers always see the full schema even on failure.
func EmptyLegalResponse() LegalResponse {
	return LegalResponse{
		KeyPoints:            []string{},
		ImportantTerms:       []string{},
		WarningsAndDeadlines: []string{},
		StepByStepGuide:      []Step{},
		Sources:              []Source{},
	}
}
