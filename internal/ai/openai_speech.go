package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/voice"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAISpeechProvider implements voice.Recognizer and voice.Synthesizer
// using OpenAI Whisper for speech-to-text and the OpenAI TTS endpoint for
// synthesis. Provider errors are normalized into the voice failure taxonomy
// so the orchestrator can branch without inspecting raw API errors.
type OpenAISpeechProvider struct {
	apiKey string
}

// NewOpenAISpeechProvider creates a speech provider backed by OpenAI.
func NewOpenAISpeechProvider(apiKey string) *OpenAISpeechProvider {
	return &OpenAISpeechProvider{apiKey: apiKey}
}

// Recognize transcribes the audio buffer via Whisper.
func (p *OpenAISpeechProvider) Recognize(ctx context.Context, audio []byte, cfg voice.RecognitionConfig) (voice.Transcription, error) {
	if len(audio) == 0 {
		return voice.Transcription{}, voice.NewFailure(voice.FailureNoSpeechDetected, errors.New("audio data is empty"))
	}

	client := openai.NewClient(p.apiKey)
	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			Reader:   bytes.NewReader(audio),
			FilePath: audioFileName(cfg.Encoding),
			Language: baseLanguage(cfg.Language),
		})
		if err == nil {
			text := strings.TrimSpace(resp.Text)
			if text == "" {
				return voice.Transcription{}, voice.NewFailure(voice.FailureNoSpeechDetected,
					errors.New("no speech detected in the audio"))
			}
			return voice.Transcription{
				Text:       text,
				Language:   cfg.Language,
				Confidence: voice.UnknownConfidence,
			}, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return voice.Transcription{}, normalizeRecognitionError(err)
		}

		logger.Get().Warn("Whisper API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return voice.Transcription{}, voice.NewFailure(voice.FailureServiceUnavailable, ctx.Err())
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return voice.Transcription{}, voice.NewFailure(voice.FailureServiceUnavailable,
		fmt.Errorf("Whisper API: exhausted %d retries: %w", maxRetries, lastErr))
}

// Synthesize converts text to spoken audio via the OpenAI TTS endpoint.
// The speaking rate is slowed slightly for comprehension.
func (p *OpenAISpeechProvider) Synthesize(ctx context.Context, text string, cfg voice.SynthesisConfig) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, voice.NewFailure(voice.FailureSynthesisFailed, errors.New("text is empty"))
	}

	client := openai.NewClient(p.apiKey)
	resp, err := client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          voiceFor(cfg),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          0.9,
	})
	if err != nil {
		return nil, voice.NewFailure(voice.FailureSynthesisFailed, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, voice.NewFailure(voice.FailureSynthesisFailed, fmt.Errorf("read TTS response: %w", err))
	}
	if len(audio) == 0 {
		return nil, voice.NewFailure(voice.FailureSynthesisFailed, errors.New("TTS API returned empty audio"))
	}
	return audio, nil
}

// voiceFor picks a TTS voice from the synthesis hints.
func voiceFor(cfg voice.SynthesisConfig) openai.SpeechVoice {
	if cfg.Voice != "" {
		return openai.SpeechVoice(cfg.Voice)
	}
	switch strings.ToLower(cfg.Gender) {
	case "male":
		return openai.VoiceOnyx
	case "female":
		return openai.VoiceNova
	default:
		return openai.VoiceAlloy
	}
}

// audioFileName maps an encoding hint to the filename extension Whisper uses
// to sniff the container format.
func audioFileName(encoding string) string {
	switch strings.ToUpper(encoding) {
	case "MP3":
		return "query.mp3"
	case "WAV", "LINEAR16":
		return "query.wav"
	case "OGG_OPUS":
		return "query.ogg"
	default:
		// Browser MediaRecorder default.
		return "query.webm"
	}
}

// baseLanguage strips the region subtag; Whisper takes ISO-639-1 codes
// ("hi-IN" -> "hi").
func baseLanguage(tag string) string {
	if idx := strings.Index(tag, "-"); idx > 0 {
		return tag[:idx]
	}
	return tag
}

// normalizeRecognitionError maps a raw OpenAI error onto the voice failure
// taxonomy. Bad-request class errors on audio input mean the encoding was
// rejected; auth, quota, server, and network errors mean the service is
// unusable.
func normalizeRecognitionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 400, 413, 415, 422:
			return voice.NewFailure(voice.FailureUnsupportedAudio, err)
		}
	}
	return voice.NewFailure(voice.FailureServiceUnavailable, err)
}

// classifyOpenAIError determines whether an OpenAI API error is retryable.
func classifyOpenAIError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			return true, 2 * time.Second
		case 500, 502, 503:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}
