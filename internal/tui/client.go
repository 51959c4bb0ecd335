package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"legal-assistant/internal/models"
)

// Client talks to the Legal Assistant API over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 120 * time.Second},
	}
}

type envelope struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	Data    models.LegalResponse `json:"data"`
}

// ProcessQuery posts the question and returns the structured answer.
func (c *Client) ProcessQuery(query string) (models.LegalResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return models.LegalResponse{}, err
	}

	resp, err := c.hc.Post(c.baseURL+"/process-query", "application/json", bytes.NewReader(body))
	if err != nil {
		return models.LegalResponse{}, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return models.LegalResponse{}, fmt.Errorf("failed to decode response: %v", err)
	}
	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return models.LegalResponse{}, fmt.Errorf("%s", msg)
	}
	return env.Data, nil
}
