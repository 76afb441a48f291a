package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider talks to a chat-completions style endpoint and asks the
// model for strict-JSON game content. Any OpenAI-compatible server works.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPProvider(opts Options) *HTTPProvider {
	return &HTTPProvider{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You write location-based pub-crawl mystery games.
Respond with a single JSON object only, no prose, with keys:
title (string), story (string), characters (array of strings),
locations (array of {name, address, clue}).`

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (Content, error) {
	prompt := fmt.Sprintf(
		"Create a %s-difficulty %s mystery pub crawl in %s with %d stops.",
		req.Difficulty, req.Theme, req.City, req.LocationCount)

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return Content{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Content{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Content{}, fmt.Errorf("calling generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Content{}, fmt.Errorf("reading generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Content{}, fmt.Errorf("generation endpoint returned %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return Content{}, fmt.Errorf("decoding generation response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Content{}, fmt.Errorf("generation response had no choices")
	}

	var content Content
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &content); err != nil {
		return Content{}, fmt.Errorf("model did not return valid JSON: %w", err)
	}
	return content, nil
}
