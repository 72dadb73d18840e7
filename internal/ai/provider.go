package ai

import (
	"context"
	"time"
)

// TextProvider handles all generative text tasks (Claude).
type TextProvider interface {
	// GenerateAdvisory answers a fully-built advisory prompt. Also satisfies
	// voice.Generator.
	GenerateAdvisory(ctx context.Context, prompt string) (string, error)
	// ChatReply continues a chat conversation given its message history.
	ChatReply(ctx context.Context, messages []Message) (string, error)
}

// VisionProvider handles image-based crop diagnosis (Claude).
type VisionProvider interface {
	DiagnoseCrop(ctx context.Context, imageData []byte, crop string, languageTag string) (*DiagnosisResult, error)
}

// PriceProvider fetches mandi (wholesale market) commodity prices. The
// implementation is the boundary to whatever retrieval mechanism backs it.
type PriceProvider interface {
	FetchPrices(ctx context.Context, commodity string, state string) ([]PriceQuote, error)
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// DiagnosisResult is the structured output of a crop-photo diagnosis.
type DiagnosisResult struct {
	Condition    string
	Severity     string // "low", "moderate", "high"
	Symptoms     []string
	Treatment    []string
	Prevention   []string
	Confidence   float64
	AdvisoryText string // localized summary for the farmer
}

// PriceQuote is one commodity price observation from a mandi.
type PriceQuote struct {
	Commodity  string    `json:"commodity"`
	Market     string    `json:"market"`
	State      string    `json:"state"`
	Unit       string    `json:"unit"`
	MinPrice   float64   `json:"min_price"`
	MaxPrice   float64   `json:"max_price"`
	ModalPrice float64   `json:"modal_price"`
	RecordedAt time.Time `json:"recorded_at"`
}
