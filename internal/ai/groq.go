package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const groqURL = "https://api.groq.com/openai/v1/chat/completions"

type groqClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqClient creates a summarizer backed by Groq's OpenAI-compatible API.
func NewGroqClient(apiKey, model string) Summarizer {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &groqClient{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize condenses a job description. Input longer than InputLimit is
// truncated before it leaves the process.
func (c *groqClient) Summarize(ctx context.Context, text string) (string, error) {
	if utf8.RuneCountInString(text) > InputLimit {
		text = string([]rune(text)[:InputLimit])
	}

	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(text)},
		},
		Temperature: 0.3,
		MaxTokens:   120,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", groqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if groqResp.Error != nil {
		return "", fmt.Errorf("API error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from groq API")
	}

	return strings.TrimSpace(groqResp.Choices[0].Message.Content), nil
}
