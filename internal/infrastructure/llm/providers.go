package llm

import (
	"context"
	"fmt"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) openAIComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	request := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": maxTokens,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	if err := c.postJSON(ctx, "/v1/chat/completions", headers, request, &response, "openai complete"); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return response.Choices[0].Message.Content, nil
}

func (c *Client) anthropicComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	request := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": maxTokens,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	}

	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": "2023-06-01",
	}
	if err := c.postJSON(ctx, "/v1/messages", headers, request, &response, "anthropic complete"); err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("anthropic response has no content blocks")
	}
	return response.Content[0].Text, nil
}

func (c *Client) geminiComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	request := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": maxTokens,
		},
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.cfg.Model)
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}
	if err := c.postJSON(ctx, path, headers, request, &response, "gemini complete"); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response has no candidates")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}
