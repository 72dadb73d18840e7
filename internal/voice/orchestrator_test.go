package voice

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubRecognizer struct {
	fn    func(ctx context.Context, audio []byte, cfg RecognitionConfig) (Transcription, error)
	calls int
}

func (r *stubRecognizer) Recognize(ctx context.Context, audio []byte, cfg RecognitionConfig) (Transcription, error) {
	r.calls++
	return r.fn(ctx, audio, cfg)
}

type stubSynthesizer struct {
	fn    func(ctx context.Context, text string, cfg SynthesisConfig) ([]byte, error)
	calls int
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string, cfg SynthesisConfig) ([]byte, error) {
	s.calls++
	return s.fn(ctx, text, cfg)
}

func okRecognizer(text string) *stubRecognizer {
	return &stubRecognizer{fn: func(_ context.Context, _ []byte, cfg RecognitionConfig) (Transcription, error) {
		return Transcription{Text: text, Language: cfg.Language, Confidence: 0.92}, nil
	}}
}

func okSynthesizer() *stubSynthesizer {
	return &stubSynthesizer{fn: func(_ context.Context, _ string, _ SynthesisConfig) ([]byte, error) {
		return []byte("real-audio-bytes"), nil
	}}
}

func okGenerator(reply string) *stubGenerator {
	return &stubGenerator{fn: func(context.Context, string) (string, error) {
		return reply, nil
	}}
}

func newTestOrchestrator(r Recognizer, s Synthesizer, g Generator) *Orchestrator {
	return NewOrchestrator(r, s, g, nil, nil, NewAvailability())
}

func testRequest() Request {
	return Request{
		Audio:    []byte{0x01, 0x02, 0x03},
		Language: "en-IN",
		Context:  Context{Location: "Karnataka", Season: "Monsoon", Crop: "Tomato", Experience: ExperienceBeginner},
	}
}

func TestProcessVoiceQuery_PrimaryPath(t *testing.T) {
	rec := okRecognizer("my wheat crop has yellow spots")
	syn := okSynthesizer()
	o := newTestOrchestrator(rec, syn, okGenerator("Spray propiconazole at 1ml per litre."))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ProcessVoiceQuery error: %v", err)
	}
	if out.Advisory.Source != SourcePrimary {
		t.Errorf("Source = %q, want primary", out.Advisory.Source)
	}
	if out.Transcription.Text != "my wheat crop has yellow spots" {
		t.Errorf("Transcription.Text = %q", out.Transcription.Text)
	}
	if out.Warning != "" {
		t.Errorf("unexpected warning on clean primary path: %q", out.Warning)
	}
	if len(out.Audio) == 0 {
		t.Error("outcome missing audio")
	}
}

// Scenario: transcription fails with ServiceUnavailable.
func TestProcessVoiceQuery_ServiceUnavailableFallsBack(t *testing.T) {
	rec := &stubRecognizer{fn: func(context.Context, []byte, RecognitionConfig) (Transcription, error) {
		return Transcription{}, NewFailure(FailureServiceUnavailable, errors.New("PERMISSION_DENIED"))
	}}
	o := newTestOrchestrator(rec, okSynthesizer(), okGenerator("advice"))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("provider failure must be absorbed, got error: %v", err)
	}
	if out.Advisory.Source != SourceMock {
		t.Errorf("Source = %q, want mock", out.Advisory.Source)
	}
	if out.Warning == "" {
		t.Error("fallback outcome should carry a warning")
	}
	if strings.TrimSpace(out.Advisory.ShapedText) == "" {
		t.Error("fallback outcome should still carry advisory text")
	}
	if len(out.Audio) == 0 {
		t.Error("fallback outcome should still carry audio")
	}

	// The failed provider is recorded so later requests skip the primary path.
	if available, known := o.avail.Get(); !known || available {
		t.Error("ServiceUnavailable should mark the provider unavailable")
	}
}

// Scenario: a 200-word reply in en-IN is trimmed to the 30-word budget.
func TestProcessVoiceQuery_LongReplyIsShaped(t *testing.T) {
	longReply := strings.TrimSpace(strings.Repeat("treat the fungus early ", 50))
	o := newTestOrchestrator(okRecognizer("my wheat crop has yellow spots"), okSynthesizer(), okGenerator(longReply))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ProcessVoiceQuery error: %v", err)
	}
	if n := WordCount(out.Advisory.ShapedText); n > MaxWordsFor("en-IN") {
		t.Errorf("shaped text has %d words, budget is %d", n, MaxWordsFor("en-IN"))
	}
	if !strings.HasSuffix(out.Advisory.ShapedText, continueCueFor("en-IN")) {
		t.Errorf("shaped text missing continuation cue: %q", out.Advisory.ShapedText)
	}
	if out.Advisory.RawText != longReply {
		t.Error("raw text should be preserved unshaped")
	}
}

// Scenario: generation fails after a successful transcription. The real
// transcription is preserved; only the advisory comes from the mock path.
func TestProcessVoiceQuery_GenerationFailureKeepsTranscription(t *testing.T) {
	gen := &stubGenerator{fn: func(context.Context, string) (string, error) {
		return "", errors.New("model quota exhausted")
	}}
	o := newTestOrchestrator(okRecognizer("when should I sow rice"), okSynthesizer(), gen)

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ProcessVoiceQuery error: %v", err)
	}
	if out.Advisory.Source != SourceMock {
		t.Errorf("Source = %q, want mock (sticky flag)", out.Advisory.Source)
	}
	if out.Transcription.Text != "when should I sow rice" {
		t.Errorf("real transcription was not preserved: %q", out.Transcription.Text)
	}
	if strings.TrimSpace(out.Advisory.ShapedText) == "" {
		t.Error("advisory text should never be empty")
	}
}

// Scenario: empty audio fails fast with no provider calls.
func TestProcessVoiceQuery_EmptyAudio(t *testing.T) {
	rec := okRecognizer("x")
	syn := okSynthesizer()
	o := newTestOrchestrator(rec, syn, okGenerator("y"))

	_, err := o.ProcessVoiceQuery(context.Background(), Request{Audio: nil, Language: "en-IN"})
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		t.Fatalf("want ProcessingError, got %v", err)
	}
	if rec.calls != 0 || syn.calls != 0 {
		t.Errorf("no provider calls expected, got recognize=%d synthesize=%d", rec.calls, syn.calls)
	}
}

func TestProcessVoiceQuery_UnsupportedLanguage(t *testing.T) {
	o := newTestOrchestrator(okRecognizer("x"), okSynthesizer(), okGenerator("y"))

	_, err := o.ProcessVoiceQuery(context.Background(), Request{Audio: []byte{1}, Language: "fr-FR"})
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		t.Fatalf("want ProcessingError for unsupported language, got %v", err)
	}
}

func TestProcessVoiceQuery_UnsupportedAudioSurfaces(t *testing.T) {
	rec := &stubRecognizer{fn: func(context.Context, []byte, RecognitionConfig) (Transcription, error) {
		return Transcription{}, NewFailure(FailureUnsupportedAudio, errors.New("bad sample rate"))
	}}
	o := newTestOrchestrator(rec, okSynthesizer(), okGenerator("y"))

	_, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	var f *Failure
	if !errors.As(err, &f) || f.Kind != FailureUnsupportedAudio {
		t.Fatalf("UnsupportedAudio must surface to the caller, got %v", err)
	}
}

func TestProcessVoiceQuery_EmptyTranscriptionFallsBack(t *testing.T) {
	rec := &stubRecognizer{fn: func(_ context.Context, _ []byte, cfg RecognitionConfig) (Transcription, error) {
		return Transcription{Text: "   ", Language: cfg.Language, IsEmpty: true}, nil
	}}
	o := newTestOrchestrator(rec, okSynthesizer(), okGenerator("advice text"))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ProcessVoiceQuery error: %v", err)
	}
	if out.Advisory.Source != SourceMock {
		t.Error("successful-but-empty transcription should fall back to mock")
	}
	if strings.TrimSpace(out.Transcription.Text) == "" {
		t.Error("mock transcription should substitute a sample query")
	}
}

func TestProcessVoiceQuery_SynthesisFailureYieldsPlaceholder(t *testing.T) {
	syn := &stubSynthesizer{fn: func(_ context.Context, text string, _ SynthesisConfig) ([]byte, error) {
		if text == probeText {
			return []byte("probe-ok"), nil
		}
		return nil, NewFailure(FailureSynthesisFailed, errors.New("voice not found"))
	}}
	o := newTestOrchestrator(okRecognizer("question"), syn, okGenerator("short answer"))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ProcessVoiceQuery error: %v", err)
	}
	if len(out.Audio) == 0 {
		t.Error("synthesis failure must still yield placeholder audio")
	}
	if out.Advisory.Source != SourceMock {
		t.Error("synthesis fallback should mark the outcome mock")
	}
}

// Scenario: one failed probe is cached; repeated status checks do not re-probe.
func TestCheckAvailability_ProbeOnce(t *testing.T) {
	syn := &stubSynthesizer{fn: func(context.Context, string, SynthesisConfig) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}
	o := newTestOrchestrator(okRecognizer("x"), syn, okGenerator("y"))

	first := o.CheckAvailability(context.Background())
	second := o.CheckAvailability(context.Background())

	if first.Available || second.Available {
		t.Error("failed probe should report unavailable")
	}
	if first.Mode != ModeDemo || second.Mode != ModeDemo {
		t.Errorf("mode = %q/%q, want demo", first.Mode, second.Mode)
	}
	if syn.calls != 1 {
		t.Errorf("provider probe count = %d, want 1", syn.calls)
	}
}

func TestCheckAvailability_ProductionMode(t *testing.T) {
	o := newTestOrchestrator(okRecognizer("x"), okSynthesizer(), okGenerator("y"))
	if got := o.CheckAvailability(context.Background()); !got.Available || got.Mode != ModeProduction {
		t.Errorf("CheckAvailability = %+v, want available production", got)
	}
}

func TestResetAvailability_ForcesReprobe(t *testing.T) {
	syn := okSynthesizer()
	o := newTestOrchestrator(okRecognizer("x"), syn, okGenerator("y"))

	o.CheckAvailability(context.Background())
	o.CheckAvailability(context.Background())
	if syn.calls != 1 {
		t.Fatalf("probe count = %d, want 1", syn.calls)
	}

	o.ResetAvailability()
	o.CheckAvailability(context.Background())
	if syn.calls != 2 {
		t.Errorf("probe count after reset = %d, want 2", syn.calls)
	}
}

func TestProcessVoiceQuery_ProbeFailureStillServesMock(t *testing.T) {
	syn := &stubSynthesizer{fn: func(context.Context, string, SynthesisConfig) ([]byte, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	rec := okRecognizer("never called")
	o := newTestOrchestrator(rec, syn, okGenerator("advice"))

	out, err := o.ProcessVoiceQuery(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("probe failure must not abort the request: %v", err)
	}
	if out.Advisory.Source != SourceMock {
		t.Error("probe failure should route to the mock branch")
	}
	if rec.calls != 0 {
		t.Error("recognizer should be skipped when the provider is unavailable")
	}
	if len(out.Audio) == 0 || strings.TrimSpace(out.Advisory.ShapedText) == "" {
		t.Error("mock branch must still produce text and audio")
	}
}
