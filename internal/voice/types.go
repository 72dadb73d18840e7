package voice

import (
	"context"
	"fmt"
	"time"
)

// Experience is the farmer's self-reported experience level.
type Experience string

// Experience enum values.
const (
	ExperienceBeginner    Experience = "beginner"
	ExperienceExperienced Experience = "experienced"
	ExperienceExpert      Experience = "expert"
	ExperienceUnspecified Experience = "unspecified"
)

// Context carries the per-request farmer context embedded into prompts.
// Immutable for the lifetime of a request.
type Context struct {
	Location   string
	Season     string
	Crop       string
	Experience Experience
}

// Source identifies which pipeline produced an advisory.
type Source string

// Source enum values. The mock flag is sticky: if any stage fell back,
// the whole outcome is marked SourceMock.
const (
	SourcePrimary Source = "primary"
	SourceMock    Source = "mock"
)

// Turn is a single prior conversational exchange supplied by the caller.
// The core never loads history itself; the surrounding chat feature does.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Transcription is the result of a speech-to-text attempt.
type Transcription struct {
	Text       string
	Language   string
	Confidence float64 // in [0,1], or UnknownConfidence when the provider reports none
	IsEmpty    bool
}

// UnknownConfidence marks a transcription whose provider reported no confidence score.
const UnknownConfidence = -1.0

// Advisory is the generated farming advice, before and after shaping.
type Advisory struct {
	RawText     string
	ShapedText  string
	Language    string
	GeneratedAt time.Time
	Source      Source
}

// Outcome is the unit returned to the caller for one voice query.
// It is never persisted by this package.
type Outcome struct {
	Transcription Transcription
	Advisory      Advisory
	Audio         []byte
	Warning       string
}

// RecognitionConfig carries hints for a speech-to-text request.
type RecognitionConfig struct {
	Language   string
	Encoding   string
	SampleRate int
}

// SynthesisConfig carries hints for a text-to-speech request.
type SynthesisConfig struct {
	Language string
	Voice    string
	Gender   string
}

// Recognizer converts recorded audio into a transcription.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, cfg RecognitionConfig) (Transcription, error)
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, cfg SynthesisConfig) ([]byte, error)
}

// Generator is the generative text backend used for advisory responses.
type Generator interface {
	GenerateAdvisory(ctx context.Context, prompt string) (string, error)
}

// FailureKind classifies a recoverable provider failure. The orchestrator
// branches on the kind instead of inspecting raw provider errors.
type FailureKind int

// FailureKind values.
const (
	// FailureUnsupportedAudio means the encoding/sample-rate combination was
	// rejected. A client error; never retried via the mock path.
	FailureUnsupportedAudio FailureKind = iota + 1
	// FailureServiceUnavailable means the provider is unreachable, rate-limited,
	// or permission-denied.
	FailureServiceUnavailable
	// FailureNoSpeechDetected means the provider returned zero segments or an
	// all-whitespace transcript.
	FailureNoSpeechDetected
	// FailureSynthesisFailed means text-to-speech failed for any reason.
	FailureSynthesisFailed
	// FailureGenerationFailed means the generative backend failed.
	FailureGenerationFailed
)

// String returns the snake_case name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureUnsupportedAudio:
		return "unsupported_audio"
	case FailureServiceUnavailable:
		return "service_unavailable"
	case FailureNoSpeechDetected:
		return "no_speech_detected"
	case FailureSynthesisFailed:
		return "synthesis_failed"
	case FailureGenerationFailed:
		return "generation_failed"
	default:
		return "unknown"
	}
}

// Failure wraps a provider error with its classification.
type Failure struct {
	Kind FailureKind
	Err  error
}

// NewFailure creates a classified failure wrapping err.
func NewFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// ProcessingError is the only terminal error surfaced by the orchestrator.
// It means the caller supplied input that even the mock path cannot serve,
// such as an empty audio buffer or an unsupported language tag.
type ProcessingError struct {
	Reason string
}

func (e *ProcessingError) Error() string {
	return "voice query processing failed: " + e.Reason
}
