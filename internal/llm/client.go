package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer sends one system+user prompt pair to a chat model and returns the
// raw text of the first choice. The Adapter's operations are built on top of
// it; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient is the production Completer backed by the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client, model: openai.ChatModel(model)}
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSONResponse strips markdown fences and surrounding prose so the
// payload can be unmarshalled. Works for both object and array payloads.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the JSON. Trim to the
	// outermost object or array, whichever opens first.
	opener, closer := "{", "}"
	if i := strings.Index(content, "["); i >= 0 {
		if j := strings.Index(content, "{"); j < 0 || i < j {
			opener, closer = "[", "]"
		}
	}
	start := strings.Index(content, opener)
	end := strings.LastIndex(content, closer)
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
