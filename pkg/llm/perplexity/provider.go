package perplexity

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

const defaultBaseURL = "https://api.perplexity.ai"

type PerplexityProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure PerplexityProvider implements the streaming contract
var _ llm.StreamingProvider = &PerplexityProvider{}

func NewPerplexityProvider(apiKey, modelName string) *PerplexityProvider {
	return &PerplexityProvider{
		BaseURL:   defaultBaseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta"`
	Finish  string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	Model     string       `json:"model"`
	Choices   []chatChoice `json:"choices"`
	Citations []string     `json:"citations"`
	Usage     chatUsage    `json:"usage"`
}

// --- Interface Implementation ---

func (p *PerplexityProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	options := llm.ApplyOptions(opts...)

	payload := p.buildPayload(history, options, false)
	body, err := p.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("perplexity returned no choices")
	}

	return &llm.Result{
		Text:      resp.Choices[0].Message.Content,
		Model:     resp.Model,
		Citations: resp.Citations,
		Tokens: llm.TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (p *PerplexityProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Result, error) {
	// Reuse Chat for simplicity as the Sonar models are chat-optimized
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// ChatStream issues a streaming completion and relays server-sent events
// as chunks. Citations and usage arrive with the final event.
func (p *PerplexityProvider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk, 16)
	errs := make(chan error, 1)

	options := llm.ApplyOptions(opts...)
	payload := p.buildPayload(history, options, true)

	go func() {
		defer close(chunks)
		defer close(errs)

		body, err := p.post(ctx, payload)
		if err != nil {
			errs <- err
			return
		}
		defer body.Close()

		var (
			citations []string
			model     string
			usage     chatUsage
		)

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" || data == "[DONE]" {
				continue
			}

			var event chatResponse
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				// Skip malformed keep-alive frames
				continue
			}
			if len(event.Citations) > 0 {
				citations = event.Citations
			}
			if event.Model != "" {
				model = event.Model
			}
			if event.Usage.TotalTokens > 0 {
				usage = event.Usage
			}
			if len(event.Choices) == 0 {
				continue
			}

			delta := event.Choices[0].Delta.Content
			if delta != "" {
				select {
				case chunks <- llm.Chunk{Content: delta}:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("read stream: %w", err)
			return
		}

		// The consumer may have abandoned the stream with the buffer full,
		// so the final send needs the same cancellation guard as deltas.
		select {
		case chunks <- llm.Chunk{
			Done:      true,
			Citations: citations,
			Model:     model,
			Tokens: llm.TokenUsage{
				Prompt:     usage.PromptTokens,
				Completion: usage.CompletionTokens,
				Total:      usage.TotalTokens,
			},
		}:
		case <-ctx.Done():
			errs <- ctx.Err()
		}
	}()

	return chunks, errs
}

func (p *PerplexityProvider) buildPayload(history []llm.Message, options *llm.Options, stream bool) chatRequest {
	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	return chatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      stream,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
}

func (p *PerplexityProvider) post(ctx context.Context, payload chatRequest) (io.ReadCloser, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perplexity request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("perplexity error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp.Body, nil
}
