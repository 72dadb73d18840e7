package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/voice"
	"go.uber.org/zap"
)

// AnthropicProvider implements TextProvider and VisionProvider using Claude.
type AnthropicProvider struct {
	client  anthropic.Client
	model   anthropic.Model
	prompts *config.Prompts
}

// NewAnthropicProvider creates a new AnthropicProvider with the given API key
// and prompt configuration.
func NewAnthropicProvider(apiKey string, prompts *config.Prompts) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client:  client,
		model:   anthropic.ModelClaude3_5Sonnet20241022,
		prompts: prompts,
	}
}

// GenerateAdvisory answers a fully-built advisory prompt with plain text.
// The prompt already carries the persona, context, and language instructions,
// so no system prompt is added here.
func (p *AnthropicProvider) GenerateAdvisory(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			newUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := p.createMessageWithRetry(ctx, params)
	if err != nil {
		return "", voice.NewFailure(voice.FailureGenerationFailed, err)
	}
	return extractTextContent(resp)
}

// ChatReply continues a chat conversation. The system prompt comes from the
// chat template configuration.
func (p *AnthropicProvider) ChatReply(ctx context.Context, messages []Message) (string, error) {
	systemPrompt, historyParams := messagesToAnthropicParams(messages)
	if systemPrompt == "" {
		systemPrompt = p.prompts.Chat.System
	}
	if len(historyParams) == 0 {
		return "", errors.New("chat history is empty")
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: historyParams,
	}

	resp, err := p.createMessageWithRetry(ctx, params)
	if err != nil {
		return "", err
	}
	return extractTextContent(resp)
}

// diagnoseCropTool builds the Claude tool definition for structured crop diagnosis.
func diagnoseCropTool() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        "diagnose_crop",
			Description: anthropic.String("Report a structured diagnosis of the crop problem visible in the photo."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]interface{}{
					"condition": map[string]interface{}{
						"type":        "string",
						"description": "Name of the disease, pest, or deficiency. 'healthy' if no problem is visible.",
					},
					"severity": map[string]interface{}{
						"type":        "string",
						"description": "How far the problem has progressed",
						"enum":        []string{"low", "moderate", "high"},
					},
					"symptoms": map[string]interface{}{
						"type":        "array",
						"description": "Visible symptoms supporting the diagnosis",
						"items":       map[string]interface{}{"type": "string"},
					},
					"treatment": map[string]interface{}{
						"type":        "array",
						"description": "Concrete treatment steps with product names and dosages where applicable",
						"items":       map[string]interface{}{"type": "string"},
					},
					"prevention": map[string]interface{}{
						"type":        "array",
						"description": "Preventive measures for future seasons",
						"items":       map[string]interface{}{"type": "string"},
					},
					"confidence": map[string]interface{}{
						"type":        "number",
						"description": "Diagnosis confidence between 0 and 1",
					},
					"advisory_text": map[string]interface{}{
						"type":        "string",
						"description": "A short farmer-friendly summary of the diagnosis and next steps, in the requested language",
					},
				},
			},
		},
	}
}

// diagnosisToolResult is the JSON structure returned by the diagnose_crop tool call.
type diagnosisToolResult struct {
	Condition    string   `json:"condition"`
	Severity     string   `json:"severity"`
	Symptoms     []string `json:"symptoms"`
	Treatment    []string `json:"treatment"`
	Prevention   []string `json:"prevention"`
	Confidence   float64  `json:"confidence"`
	AdvisoryText string   `json:"advisory_text"`
}

// DiagnoseCrop analyses a crop photo and returns a structured diagnosis
// localized to the given language.
func (p *AnthropicProvider) DiagnoseCrop(ctx context.Context, imageData []byte, crop string, languageTag string) (*DiagnosisResult, error) {
	if len(imageData) == 0 {
		return nil, errors.New("image data is empty")
	}

	sysPrompt, err := config.RenderPrompt(p.prompts.Diagnosis.System, map[string]interface{}{
		"Crop":     crop,
		"Language": voice.LanguageName(languageTag),
	})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	b64 := base64.StdEncoding.EncodeToString(imageData)
	mediaType := detectImageMediaType(imageData)
	tool := diagnoseCropTool()

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: sysPrompt},
		},
		Messages: []anthropic.MessageParam{
			newUserMessage(
				anthropic.ContentBlockParamUnion{
					OfRequestImageBlock: &anthropic.ImageBlockParam{
						Source: anthropic.ImageBlockParamSourceUnion{
							OfBase64ImageSource: &anthropic.Base64ImageSourceParam{
								MediaType: anthropic.Base64ImageSourceMediaType(mediaType),
								Data:      b64,
							},
						},
					},
				},
				anthropic.NewTextBlock(p.prompts.Diagnosis.User),
			),
		},
		Tools: []anthropic.ToolUnionParam{tool},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfToolChoiceTool: &anthropic.ToolChoiceToolParam{
				Name: "diagnose_crop",
			},
		},
	}

	resp, err := p.createMessageWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" {
			raw, err := json.Marshal(block.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool input: %w", err)
			}
			var tr diagnosisToolResult
			if err := json.Unmarshal(raw, &tr); err != nil {
				return nil, fmt.Errorf("failed to parse diagnosis tool result: %w", err)
			}
			return &DiagnosisResult{
				Condition:    tr.Condition,
				Severity:     tr.Severity,
				Symptoms:     tr.Symptoms,
				Treatment:    tr.Treatment,
				Prevention:   tr.Prevention,
				Confidence:   tr.Confidence,
				AdvisoryText: tr.AdvisoryText,
			}, nil
		}
	}
	return nil, errors.New("no tool_use block found in Claude response")
}

// messagesToAnthropicParams converts our Message slice into Claude message params.
// System messages are separated out as they use a different field in the API.
func messagesToAnthropicParams(msgs []Message) (string, []anthropic.MessageParam) {
	var systemPrompt string
	var params []anthropic.MessageParam

	for _, m := range msgs {
		switch m.Role {
		case "system":
			if systemPrompt != "" {
				systemPrompt += "\n\n"
			}
			systemPrompt += m.Content
		case "user":
			params = append(params, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(m.Content),
				},
			})
		case "assistant":
			params = append(params, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(m.Content),
				},
			})
		}
	}
	return systemPrompt, params
}

// newUserMessage creates a user message param with the given content blocks.
func newUserMessage(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}
}

// createMessageWithRetry wraps the Claude API call with exponential backoff.
func (p *AnthropicProvider) createMessageWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const maxRetries = 5
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyAnthropicError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		logger.Get().Warn("claude API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		backoff := waitTime * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("claude API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyAnthropicError determines whether to retry and the base wait duration.
func classifyAnthropicError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return true, 2 * time.Second
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}

// detectImageMediaType returns the MIME type based on magic bytes.
func detectImageMediaType(data []byte) string {
	if len(data) < 4 {
		return "image/jpeg"
	}
	// PNG magic bytes
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	// GIF
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "image/gif"
	}
	// WebP
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}
	return "image/jpeg"
}

// extractTextContent returns the concatenated text blocks from a Claude response.
func extractTextContent(msg *anthropic.Message) (string, error) {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", errors.New("no text content in Claude response")
	}
	return text, nil
}
