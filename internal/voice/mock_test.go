package voice

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubGenerator is a function-backed Generator for tests.
type stubGenerator struct {
	fn func(ctx context.Context, prompt string) (string, error)
}

func (g *stubGenerator) GenerateAdvisory(ctx context.Context, prompt string) (string, error) {
	return g.fn(ctx, prompt)
}

func TestMockEngine_GenerateQueryNeverEmpty(t *testing.T) {
	m := NewMockEngine(nil, nil)
	for tag := range SupportedLanguages() {
		for i := 0; i < 10; i++ {
			if q := m.GenerateQuery(tag); strings.TrimSpace(q) == "" {
				t.Fatalf("GenerateQuery(%q) returned empty string", tag)
			}
		}
	}
}

func TestMockEngine_GenerateQueryUnknownLanguage(t *testing.T) {
	m := NewMockEngine(nil, nil)
	if q := m.GenerateQuery("xx-XX"); q == "" {
		t.Error("unknown language should fall back to the default pool")
	}
}

func TestMockEngine_GenerateAdvisoryUsesGenerator(t *testing.T) {
	gen := &stubGenerator{fn: func(_ context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "FARMER ASKS") {
			t.Errorf("mock advisory should use the mock-flavored prompt, got %q", prompt)
		}
		return "Apply neem oil at 5ml per litre.", nil
	}}
	m := NewMockEngine(gen, nil)

	got := m.GenerateAdvisory(context.Background(), "whitefly on cotton", Context{}, "en-IN")
	if got != "Apply neem oil at 5ml per litre." {
		t.Errorf("GenerateAdvisory = %q", got)
	}
}

func TestMockEngine_GenerateAdvisoryDoubleFallback(t *testing.T) {
	gen := &stubGenerator{fn: func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	m := NewMockEngine(gen, nil)

	for _, tag := range []string{"hi-IN", "en-IN", "bn-IN", "gu-IN"} {
		got := m.GenerateAdvisory(context.Background(), "q", Context{}, tag)
		if strings.TrimSpace(got) == "" {
			t.Errorf("%s: double fallback returned empty advisory", tag)
		}
	}
}

func TestMockEngine_GenerateAdvisoryNilGenerator(t *testing.T) {
	m := NewMockEngine(nil, nil)
	if got := m.GenerateAdvisory(context.Background(), "q", Context{}, "en-IN"); got == "" {
		t.Error("nil generator should yield the fixed template")
	}
}

func TestMockEngine_GenerateAudioNeverEmpty(t *testing.T) {
	m := NewMockEngine(nil, nil)
	cases := []struct{ text, tag string }{
		{"", "en-IN"},
		{"some advisory text", "hi-IN"},
		{"x", "xx-XX"},
	}
	for _, tc := range cases {
		audio := m.GenerateAudio(tc.text, tc.tag)
		if len(audio) == 0 {
			t.Errorf("GenerateAudio(%q, %q) returned empty buffer", tc.text, tc.tag)
		}
		if audio[0] != 0xFF || audio[1] != 0xFB {
			t.Errorf("placeholder buffer missing MP3 frame header")
		}
	}
}
