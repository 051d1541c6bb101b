package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// Client is a chat completions client for OpenAI-compatible and Azure OpenAI endpoints.
type Client struct {
	Endpoint string
	Model    string
	api      openai.Client
}

// NewClient creates a new LLM client. model is the default model, or the
// deployment name in Azure mode.
func NewClient(opts Options, model string) *Client {
	return &Client{
		Endpoint: opts.Endpoint,
		Model:    model,
		api:      openai.NewClient(opts.requestOptions()...),
	}
}

// ChatWithMessages sends a chat completion request with structured messages and parameters.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	sdkMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, m := range messages {
		switch m.Role {
		case RoleSystem:
			sdkMessages = append(sdkMessages, openai.SystemMessage(m.Content))
		case RoleUser:
			sdkMessages = append(sdkMessages, openai.UserMessage(m.Content))
		case RoleAssistant:
			sdkMessages = append(sdkMessages, openai.AssistantMessage(m.Content))
		default:
			return "", fmt.Errorf("message %d has unsupported role %q", i, m.Role)
		}
	}

	model := params.Model
	if model == "" {
		model = c.Model
	}

	req := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    sdkMessages,
		Temperature: openai.Float(params.Temperature),
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(int64(params.MaxTokens))
	}

	resp, err := c.api.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
