package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/mailsift/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMModel is an optional ensemble voter backed by an OpenAI chat model. It
// is wired through the same scoring contract as the statistical models, so an
// API outage simply means one fewer vote.
type LLMModel struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
}

// llmResponse is the structured verdict requested from the model.
type llmResponse struct {
	IsSpam          bool    `json:"is_spam"`
	Category        string  `json:"category"`
	SpamProbability float64 `json:"spam_probability"`
}

const llmPromptFormat = `You are a spam classification system. Analyze the email and respond with a JSON object containing:
- is_spam: boolean
- category: one of "Phishing", "Payment Scam", "Adult & Dating Spam", "Health & Medical Spam", "Legal & Compensation Scams", "Financial & Investment Spam", "Gambling Spam", "Business Opportunity Spam", "Brand Impersonation", "Marketing Spam", "Promotional Email", "Not Spam"
- spam_probability: number between 0 and 1

Email:
From: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`

// NewLLMModel creates an OpenAI-backed scoring model.
func NewLLMModel(apiKey, modelName string, maxTokens int, temperature, topP float32, maxBodySize int, logger *zap.Logger) *LLMModel {
	return &LLMModel{
		client:      openai.NewClient(apiKey),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Name implements core.ScoringModel.
func (m *LLMModel) Name() string { return "llm" }

func (m *LLMModel) truncateBody(body string) string {
	if m.maxBodySize <= 0 || len(body) <= m.maxBodySize {
		return body
	}
	truncated := body[:m.maxBodySize]
	m.logger.Debug("Email body truncated",
		zap.Int("original_size", len(body)),
		zap.Int("max_size", m.maxBodySize))
	return truncated + "\n[... Content truncated due to size limits ...]"
}

// Predict asks the chat model for a structured verdict.
func (m *LLMModel) Predict(ctx context.Context, sig *core.EmailSignal) (*core.ModelPrediction, error) {
	prompt := fmt.Sprintf(llmPromptFormat, sig.Sender, sig.Subject, m.truncateBody(sig.Body))

	req := openai.ChatCompletionRequest{
		Model: m.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a spam classification system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
		TopP:        m.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: "json_object",
		},
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	var parsed llmResponse
	text := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		// Some models wrap the JSON in prose; extract the outermost object.
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	label, ok := core.ParseCategory(parsed.Category)
	if !ok {
		label = core.CategoryUnknown
	}
	return &core.ModelPrediction{
		Label:           label,
		IsSpam:          parsed.IsSpam,
		SpamProbability: parsed.SpamProbability,
	}, nil
}
