package voice

import (
	"context"
	"math/rand"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"go.uber.org/zap"
)

// placeholderAudioSize pads the mock audio buffer to roughly 1KB so clients
// treat it like a real (if silent) clip.
const placeholderAudioSize = 1024

// mp3FrameHeader is a single MPEG-1 Layer III frame header (44.1kHz, 128kbps)
// so the placeholder buffer is recognizable as MP3 by audio elements.
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// MockEngine is the deterministic substitute pipeline used when the real
// speech providers are unusable. It is the circuit breaker of last resort:
// none of its methods can fail or return empty results.
type MockEngine struct {
	generator Generator
	prompts   *PromptBuilder
}

// NewMockEngine creates a fallback engine. The generator is still consulted
// for advisory text (a mock transcription does not imply the generative
// backend is down); it may be nil, in which case the fixed templates are
// used directly.
func NewMockEngine(generator Generator, prompts *PromptBuilder) *MockEngine {
	if prompts == nil {
		prompts = NewPromptBuilder("")
	}
	return &MockEngine{generator: generator, prompts: prompts}
}

// GenerateQuery returns one realistic sample question from the language's
// pool. Selection is pseudo-random; the result is never empty.
func (m *MockEngine) GenerateQuery(languageTag string) string {
	pool := sampleQueriesFor(languageTag)
	return pool[rand.Intn(len(pool))]
}

// GenerateAdvisory produces advisory text for the query. It first tries the
// real generative backend with a mock-flavored prompt; if that fails too, it
// falls back to the language's fixed template. Never returns empty, never
// returns an error.
func (m *MockEngine) GenerateAdvisory(ctx context.Context, query string, fctx Context, languageTag string) string {
	if m.generator != nil {
		prompt := m.prompts.BuildMock(query, fctx, languageTag)
		text, err := m.generator.GenerateAdvisory(ctx, prompt)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			logger.Get().Warn("mock advisory generation failed, using fixed template",
				zap.String("language", languageTag),
				zap.Error(err),
			)
		}
	}
	return fallbackAdvisoryFor(languageTag)
}

// GenerateAudio returns a well-formed non-empty placeholder audio buffer.
// It never calls the real synthesis provider and never fails, for any input
// including empty text.
func (m *MockEngine) GenerateAudio(text, languageTag string) []byte {
	buf := make([]byte, placeholderAudioSize)
	copy(buf, mp3FrameHeader)
	return buf
}
