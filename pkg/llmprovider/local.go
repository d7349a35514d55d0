package llmprovider

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/madspark-dev/madspark/pkg/errs"
)

// generateMethod is the fully-qualified gRPC method name for the local
// inference service's structured-output RPC: a plain
// "/package.Service/Method" endpoint that would normally be dialed
// through a `protoc`-generated client stub. With no .proto file or
// generated stub package available, LocalProvider invokes the RPC
// directly via grpc.ClientConn.Invoke against structpb.Struct messages,
// a real proto.Message implementation shipped by
// google.golang.org/protobuf that needs no code generation.
const generateMethod = "/madspark.LocalLLMService/GenerateStructured"
const healthMethod = "/madspark.LocalLLMService/HealthCheck"

// LocalProvider talks to an on-premise LLM inference service over gRPC.
type LocalProvider struct {
	conn               *grpc.ClientConn
	model              string
	multimodalPrefixes []string
	costPrompt         float64
	costCompletion     float64
}

// NewLocalProvider dials addr (insecure transport, matching the
// teacher's pkg/llm/client.go use of credentials/insecure for its
// in-cluster LLM service) and returns a ready-to-use LocalProvider.
func NewLocalProvider(addr, model string, multimodalPrefixes []string, costPrompt, costCompletion float64) (*LocalProvider, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to local LLM service: %w", err)
	}
	return &LocalProvider{
		conn:               conn,
		model:              model,
		multimodalPrefixes: multimodalPrefixes,
		costPrompt:         costPrompt,
		costCompletion:     costCompletion,
	}, nil
}

// Close releases the underlying gRPC connection.
func (p *LocalProvider) Close() error {
	return p.conn.Close()
}

func (p *LocalProvider) GenerateStructured(ctx context.Context, req Request) (Response, error) {
	fields := map[string]interface{}{
		"prompt":      req.Prompt,
		"schema_name": req.SchemaName,
		"model":       p.model,
		"temperature": req.Temperature,
	}
	if req.SystemInstruction != "" {
		fields["system_instruction"] = req.SystemInstruction
	}
	if len(req.URLs) > 0 {
		urls := make([]interface{}, len(req.URLs))
		for i, u := range req.URLs {
			urls[i] = u
		}
		fields["urls"] = urls
	}

	reqStruct, err := structpb.NewStruct(fields)
	if err != nil {
		return Response{}, errs.NewValidationError("request", err.Error())
	}

	respStruct := &structpb.Struct{}
	if err := p.conn.Invoke(ctx, generateMethod, reqStruct, respStruct); err != nil {
		return Response{}, errs.NewProviderError(p.ProviderName(), err)
	}

	respMap := respStruct.AsMap()
	payload, _ := respMap["json"].(string)
	promptTokens, _ := respMap["prompt_tokens"].(float64)
	completionTokens, _ := respMap["completion_tokens"].(float64)

	return Response{
		JSON:             payload,
		PromptTokens:     int(promptTokens),
		CompletionTokens: int(completionTokens),
		ProviderName:     p.ProviderName(),
		ModelName:        p.model,
	}, nil
}

func (p *LocalProvider) HealthCheck(ctx context.Context) error {
	req := &structpb.Struct{}
	resp := &structpb.Struct{}
	if err := p.conn.Invoke(ctx, healthMethod, req, resp); err != nil {
		return errs.NewProviderError(p.ProviderName(), err)
	}
	return nil
}

func (p *LocalProvider) ProviderName() string { return "local" }
func (p *LocalProvider) ModelName() string    { return p.model }

func (p *LocalProvider) SupportsMultimodal() bool {
	return len(p.multimodalPrefixes) > 0
}

func (p *LocalProvider) CostPerToken() (prompt, completion float64) {
	return p.costPrompt, p.costCompletion
}
