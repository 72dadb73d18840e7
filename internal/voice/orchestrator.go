package voice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"go.uber.org/zap"
)

// Mode values reported by CheckAvailability.
const (
	ModeProduction = "production"
	ModeDemo       = "demo"
)

// probeText is the short utterance synthesized once to establish whether the
// speech provider is reachable.
const probeText = "Namaste"

// Request is one voice query submitted by a caller.
type Request struct {
	Audio      []byte
	Language   string
	Context    Context
	PriorTurns []Turn
	Encoding   string
	SampleRate int
}

// Status is the provider availability report exposed to callers.
type Status struct {
	Available bool   `json:"isAvailable"`
	Mode      string `json:"mode"`
}

// Orchestrator sequences the voice pipeline: transcribe, build prompt,
// generate, shape, synthesize. Each stage that touches a provider can fall
// back to the mock engine; the mock flag is sticky across stages. Provider
// availability is memoized in the injected Availability cache, which the
// orchestrator alone writes.
type Orchestrator struct {
	recognizer  Recognizer
	synthesizer Synthesizer
	generator   Generator
	prompts     *PromptBuilder
	mock        *MockEngine
	avail       *Availability
}

// NewOrchestrator wires the pipeline. prompts, mock, and avail may be nil,
// in which case defaults are constructed.
func NewOrchestrator(recognizer Recognizer, synthesizer Synthesizer, generator Generator, prompts *PromptBuilder, mock *MockEngine, avail *Availability) *Orchestrator {
	if prompts == nil {
		prompts = NewPromptBuilder("")
	}
	if mock == nil {
		mock = NewMockEngine(generator, prompts)
	}
	if avail == nil {
		avail = NewAvailability()
	}
	return &Orchestrator{
		recognizer:  recognizer,
		synthesizer: synthesizer,
		generator:   generator,
		prompts:     prompts,
		mock:        mock,
		avail:       avail,
	}
}

// ProcessVoiceQuery runs one audio query through the pipeline and always
// returns an outcome with non-empty advisory text and a non-empty audio
// buffer, unless the input itself is unusable (ProcessingError) or the
// audio encoding is rejected (Failure with FailureUnsupportedAudio).
func (o *Orchestrator) ProcessVoiceQuery(ctx context.Context, req Request) (*Outcome, error) {
	if len(req.Audio) == 0 {
		return nil, &ProcessingError{Reason: "no audio data provided"}
	}
	if !Supported(req.Language) {
		return nil, &ProcessingError{Reason: "unsupported language tag " + req.Language}
	}

	log := logger.With(zap.String("language", req.Language))
	available := o.ensureAvailability(ctx)

	var (
		warnings []string
		mocked   bool
		tr       Transcription
	)

	if available {
		var err error
		tr, err = o.recognizer.Recognize(ctx, req.Audio, RecognitionConfig{
			Language:   req.Language,
			Encoding:   req.Encoding,
			SampleRate: req.SampleRate,
		})
		switch {
		case err == nil && strings.TrimSpace(tr.Text) != "":
			// Primary transcription succeeded.
		case err == nil:
			log.Warn("transcription returned empty text, switching to demo mode")
			mocked = true
			warnings = append(warnings, "no speech detected in the audio; responded with a sample query")
		default:
			var f *Failure
			if errors.As(err, &f) {
				switch f.Kind {
				case FailureUnsupportedAudio:
					// Client-correctable; never absorbed by the fallback path.
					return nil, err
				case FailureServiceUnavailable:
					o.avail.Set(false)
					available = false
					log.Warn("speech service unavailable, switching to demo mode", zap.Error(err))
					warnings = append(warnings, "speech recognition service unavailable; responded in demo mode")
				case FailureNoSpeechDetected:
					log.Warn("no speech detected, switching to demo mode", zap.Error(err))
					warnings = append(warnings, "no speech detected in the audio; responded with a sample query")
				default:
					log.Warn("transcription failed, switching to demo mode", zap.Error(err))
					warnings = append(warnings, "speech recognition failed; responded in demo mode")
				}
			} else {
				log.Warn("transcription failed unexpectedly, switching to demo mode", zap.Error(err))
				warnings = append(warnings, "speech recognition failed; responded in demo mode")
			}
			mocked = true
		}
	} else {
		mocked = true
		warnings = append(warnings, "speech recognition service unavailable; responded in demo mode")
	}

	if mocked {
		tr = Transcription{
			Text:       o.mock.GenerateQuery(req.Language),
			Language:   req.Language,
			Confidence: UnknownConfidence,
		}
	}

	rawText, genMocked := o.generateAdvisory(ctx, tr.Text, req, log)
	mocked = mocked || genMocked
	if genMocked {
		warnings = append(warnings, "advisory generation fell back to the demo response")
	}

	shaped := Shape(rawText, req.Language)

	audio, synthMocked := o.synthesizeResponse(ctx, shaped, req.Language, available, log)
	mocked = mocked || synthMocked
	if synthMocked {
		warnings = append(warnings, "speech synthesis fell back to placeholder audio")
	}

	source := SourcePrimary
	if mocked {
		source = SourceMock
	}

	return &Outcome{
		Transcription: tr,
		Advisory: Advisory{
			RawText:     rawText,
			ShapedText:  shaped,
			Language:    req.Language,
			GeneratedAt: time.Now().UTC(),
			Source:      source,
		},
		Audio:   audio,
		Warning: strings.Join(warnings, "; "),
	}, nil
}

// generateAdvisory invokes the generative backend with the built prompt.
// Any failure routes to the mock engine with the same query text; the
// transcription is never redone.
func (o *Orchestrator) generateAdvisory(ctx context.Context, query string, req Request, log *zap.Logger) (text string, mocked bool) {
	prompt := o.prompts.Build(query, req.Context, req.Language, req.PriorTurns)
	text, err := o.generator.GenerateAdvisory(ctx, prompt)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, false
	}
	if err != nil {
		log.Warn("advisory generation failed, using mock advisory", zap.Error(err))
	}
	return o.mock.GenerateAdvisory(ctx, query, req.Context, req.Language), true
}

// synthesizeResponse converts the shaped advisory to audio. The real
// synthesizer is only consulted while the provider is believed available;
// any failure yields the mock placeholder so the caller always receives
// an audio buffer.
func (o *Orchestrator) synthesizeResponse(ctx context.Context, text, languageTag string, available bool, log *zap.Logger) (audio []byte, mocked bool) {
	if available {
		audio, err := o.synthesizer.Synthesize(ctx, text, SynthesisConfig{Language: languageTag})
		if err == nil && len(audio) > 0 {
			return audio, false
		}
		if err != nil {
			log.Warn("speech synthesis failed, using placeholder audio", zap.Error(err))
		}
	}
	return o.mock.GenerateAudio(text, languageTag), true
}

// Transcribe runs recognition alone, outside the fallback pipeline.
// Provider failures are surfaced to the caller instead of being absorbed
// by the mock engine.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte, languageTag, encoding string, sampleRate int) (Transcription, error) {
	if len(audio) == 0 {
		return Transcription{}, &ProcessingError{Reason: "no audio data provided"}
	}
	if !Supported(languageTag) {
		return Transcription{}, &ProcessingError{Reason: "unsupported language tag " + languageTag}
	}
	return o.recognizer.Recognize(ctx, audio, RecognitionConfig{
		Language:   languageTag,
		Encoding:   encoding,
		SampleRate: sampleRate,
	})
}

// Synthesize runs speech synthesis alone, outside the fallback pipeline.
func (o *Orchestrator) Synthesize(ctx context.Context, text, languageTag string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProcessingError{Reason: "no text provided"}
	}
	if !Supported(languageTag) {
		return nil, &ProcessingError{Reason: "unsupported language tag " + languageTag}
	}
	return o.synthesizer.Synthesize(ctx, text, SynthesisConfig{Language: languageTag})
}

// CheckAvailability reports whether the speech provider is reachable,
// probing it at most once until the cache is reset.
func (o *Orchestrator) CheckAvailability(ctx context.Context) Status {
	available := o.ensureAvailability(ctx)
	mode := ModeProduction
	if !available {
		mode = ModeDemo
	}
	return Status{Available: available, Mode: mode}
}

// ResetAvailability clears the memoized provider status so the next request
// re-probes. Intended for operator recovery and test isolation.
func (o *Orchestrator) ResetAvailability() {
	o.avail.Reset()
}

// ensureAvailability returns the cached provider status, performing one
// lightweight synthesis probe when it is still unknown. A failed probe
// records unavailability but never aborts the request.
func (o *Orchestrator) ensureAvailability(ctx context.Context) bool {
	if available, known := o.avail.Get(); known {
		return available
	}

	_, err := o.synthesizer.Synthesize(ctx, probeText, SynthesisConfig{Language: DefaultLanguage})
	if err != nil {
		logger.Get().Warn("speech provider probe failed, entering demo mode", zap.Error(err))
	}
	o.avail.Set(err == nil)
	available, _ := o.avail.Get()
	return available
}
