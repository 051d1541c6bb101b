package llm

import (
	"net/http"

	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model (Azure deployment) to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float64
}

// Options describes how to reach the OpenAI-compatible service.
type Options struct {
	// Endpoint is the Azure resource endpoint in Azure mode, otherwise the API base URL.
	Endpoint string
	APIKey   string
	// APIVersion selects Azure OpenAI mode when non-empty.
	APIVersion string
	// HTTPClient overrides the SDK's default HTTP client.
	HTTPClient *http.Client
}

// requestOptions translates Options into SDK request options.
// Retries are disabled: a failed call surfaces immediately to the caller.
func (o Options) requestOptions() []option.RequestOption {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if o.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	}
	if o.APIVersion != "" {
		opts = append(opts,
			azure.WithEndpoint(o.Endpoint, o.APIVersion),
			azure.WithAPIKey(o.APIKey),
		)
		return opts
	}
	return append(opts,
		option.WithBaseURL(o.Endpoint),
		option.WithAPIKey(o.APIKey),
	)
}
