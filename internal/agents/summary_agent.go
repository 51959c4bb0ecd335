package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"legal-assistant/internal/llmservice"
	"legal-assistant/internal/models"
)

// SummaryAgent turns a query plus its retrieval context into the
// structured response by prompting the hosted generative model.
type SummaryAgent struct {
	model llms.Model
}

func NewSummaryAgent(model llms.Model) *SummaryAgent {
	return &SummaryAgent{model: model}
}

// modelReply is the JSON shape requested from the model. Sources are
// filled locally from the retrieved chunks, not trusted from the model.
type modelReply struct {
	SimpleExplanation    string        `json:"simple_explanation"`
	KeyPoints            []string      `json:"key_points"`
	ImportantTerms       []string      `json:"important_terms"`
	WarningsAndDeadlines []string      `json:"warnings_and_deadlines"`
	StepByStepGuide      []models.Step `json:"step_by_step_guide"`
}

// Summarize prompts the model and parses its reply. A reply that is not
// valid JSON or misses fields degrades to defaults instead of failing.
func (a *SummaryAgent) Summarize(ctx context.Context, query string, rc *RetrievalContext) (models.LegalResponse, error) {
	prompt := buildPrompt(query, rc)

	text, err := llmservice.GenerateText(ctx, a.model, prompt)
	if err != nil {
		return models.EmptyLegalResponse(), fmt.Errorf("failed to generate summary: %v", err)
	}

	resp := parseReply(text)
	resp.Sources = buildSources(rc.Results)
	return resp, nil
}

func buildPrompt(query string, rc *RetrievalContext) string {
	context := rc.Context
	if context == "" {
		context = "(no relevant documents found)"
	}
	prompt := fmt.Sprintf(models.SummaryPromptTemplate, context, query)
	if rc.IsProcedural {
		prompt += models.ProceduralPromptAddition
	}
	if !rc.IsLegal {
		prompt += models.NonLegalPromptAddition
	}
	return prompt
}

// parseReply parses the model text into the response schema. Invalid JSON
// falls back to using the raw text as the explanation with empty lists.
func parseReply(text string) models.LegalResponse {
	resp := models.EmptyLegalResponse()

	var reply modelReply
	if err := json.Unmarshal([]byte(cleanJSONReply(text)), &reply); err != nil {
		log.Warn().Err(err).Msg("Failed to parse model reply as JSON")
		resp.SimpleExplanation = strings.TrimSpace(text)
		return resp
	}

	resp.SimpleExplanation = reply.SimpleExplanation
	if reply.KeyPoints != nil {
		resp.KeyPoints = reply.KeyPoints
	}
	if reply.ImportantTerms != nil {
		resp.ImportantTerms = reply.ImportantTerms
	}
	if reply.WarningsAndDeadlines != nil {
		resp.WarningsAndDeadlines = reply.WarningsAndDeadlines
	}
	if reply.StepByStepGuide != nil {
		resp.StepByStepGuide = reply.StepByStepGuide
	}
	return resp
}

// cleanJSONReply strips markdown code fences the model tends to wrap
// JSON replies in.
func cleanJSONReply(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

func buildSources(results []models.SearchResult) []models.Source {
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, models.Source{
			Text:      r.Content,
			Document:  r.SourceFilename,
			Relevance: fmt.Sprintf("similarity %.2f", r.Similarity),
		})
	}
	return sources
}
