package llmprovider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/madspark-dev/madspark/pkg/errs"
)

// CloudProvider talks to Anthropic's hosted API, named in
// jordigilh-kubernaut's go.mod as the pack's only cloud LLM SDK
// dependency with a real third-party client (as opposed to a
// hand-rolled HTTP wrapper).
type CloudProvider struct {
	client         anthropic.Client
	model          anthropic.Model
	maxTokens      int64
	costPrompt     float64
	costCompletion float64
}

// NewCloudProvider builds a CloudProvider from an API key and model
// name. maxTokens bounds every completion; 4096 is a conservative
// default for response-size limits.
func NewCloudProvider(apiKey, model string, maxTokens int64, costPrompt, costCompletion float64) *CloudProvider {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &CloudProvider{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          anthropic.Model(model),
		maxTokens:      maxTokens,
		costPrompt:     costPrompt,
		costCompletion: costCompletion,
	}
}

func (p *CloudProvider) GenerateStructured(ctx context.Context, req Request) (Response, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, errs.NewProviderError(p.ProviderName(), err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return Response{}, errs.NewProviderError(p.ProviderName(), fmt.Errorf("empty response content"))
	}

	return Response{
		JSON:             text,
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		ProviderName:     p.ProviderName(),
		ModelName:        string(p.model),
	}, nil
}

func (p *CloudProvider) HealthCheck(ctx context.Context) error {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	}
	_, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return errs.NewProviderError(p.ProviderName(), err)
	}
	return nil
}

func (p *CloudProvider) ProviderName() string { return "cloud" }
func (p *CloudProvider) ModelName() string    { return string(p.model) }

func (p *CloudProvider) SupportsMultimodal() bool { return true }

func (p *CloudProvider) CostPerToken() (prompt, completion float64) {
	return p.costPrompt, p.costCompletion
}
