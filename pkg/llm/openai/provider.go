package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

// OpenAIProvider backs the chat pipeline with the OpenAI chat completion
// API. It exists as a development alternative to the Perplexity backend;
// OpenAI completions carry no search citations, so Result.Citations is
// always empty here.
type OpenAIProvider struct {
	client    *openai.Client
	ModelName string
}

var _ llm.StreamingProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		ModelName: modelName,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	if p.client == nil {
		return nil, errors.New("openai client not initialized")
	}
	options := llm.ApplyOptions(opts...)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model(options),
		Messages:    toOpenAIMessages(history),
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	return &llm.Result{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Tokens: llm.TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Result, error) {
	return p.Chat(ctx, []llm.Message{{Role: openai.ChatMessageRoleUser, Content: prompt}}, opts...)
}

func (p *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk, 16)
	errs := make(chan error, 1)

	options := llm.ApplyOptions(opts...)

	go func() {
		defer close(chunks)
		defer close(errs)

		stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       p.model(options),
			Messages:    toOpenAIMessages(history),
			Temperature: float32(options.Temperature),
			MaxTokens:   options.MaxTokens,
			Stream:      true,
		})
		if err != nil {
			errs <- fmt.Errorf("openai stream failed: %w", err)
			return
		}
		defer stream.Close()

		model := p.model(options)
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				errs <- fmt.Errorf("openai stream recv: %w", err)
				return
			}
			if resp.Model != "" {
				model = resp.Model
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case chunks <- llm.Chunk{Content: delta}:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		chunks <- llm.Chunk{Done: true, Model: model}
	}()

	return chunks, errs
}

func (p *OpenAIProvider) model(options *llm.Options) string {
	if options.Model != "" {
		return options.Model
	}
	return p.ModelName
}

func toOpenAIMessages(history []llm.Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
