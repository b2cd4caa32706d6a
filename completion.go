package quizcraft

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionClient is the single outbound boundary of the system: send a
// prompt, get a text completion back. Failure modes (timeout, quota,
// malformed response) are not distinguished here.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements CompletionClient against the OpenAI chat
// completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a completion client using the given API key.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// Complete sends a single-turn chat completion request and returns the raw
// response text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	VerboseLog("Sending completion request (%d chars)", len(prompt))

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a quiz mentor that writes clear multiple choice questions and helpful hints.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from model")
	}

	return resp.Choices[0].Message.Content, nil
}
