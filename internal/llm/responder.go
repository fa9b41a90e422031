// Package llm answers free-form questions with a single-turn chat completion.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	openai "github.com/openai/openai-go/v3"

	"voxbot/internal/resilience"
)

const systemPrompt = `You are a helpful voice assistant. Provide concise,
conversational responses. Keep answers brief but informative.
Be friendly and natural.`

type Config struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
}

type Responder struct {
	client  openai.Client
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewResponder(client openai.Client, cfg Config, logger *slog.Logger) *Responder {
	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4o)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Responder{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{Name: "openai-chat"}, logger),
		logger:  logger,
	}
}

// Ask sends question with the assistant persona and no prior history.
func (r *Responder) Ask(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	return resilience.Call(r.breaker, func() (string, error) {
		return r.ask(ctx, question)
	})
}

func (r *Responder) ask(ctx context.Context, question string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Model:               openai.ChatModel(r.cfg.Model),
		MaxCompletionTokens: openai.Int(r.cfg.MaxTokens),
		Temperature:         openai.Float(r.cfg.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty message content")
	}

	r.logger.Debug("Generated reply", "model", resp.Model, "tokens", resp.Usage.CompletionTokens)
	return content, nil
}
