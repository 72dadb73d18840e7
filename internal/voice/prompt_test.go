package voice

import (
	"fmt"
	"strings"
	"testing"
)

func TestPromptBuilder_Deterministic(t *testing.T) {
	b := NewPromptBuilder("")
	fctx := Context{Location: "Punjab", Season: "Rabi", Crop: "Wheat", Experience: ExperienceExperienced}
	turns := []Turn{
		{Role: "user", Content: "When should I irrigate?"},
		{Role: "assistant", Content: "Irrigate at crown root initiation."},
	}

	first := b.Build("My wheat has rust", fctx, "en-IN", turns)
	second := b.Build("My wheat has rust", fctx, "en-IN", turns)
	if first != second {
		t.Error("Build is not stable under repeated calls with identical input")
	}
}

func TestPromptBuilder_EmbedsContextWithDefaults(t *testing.T) {
	b := NewPromptBuilder("")

	got := b.Build("question", Context{}, "hi-IN", nil)
	for _, want := range []string{"India", "Current season", "Mixed farming", string(ExperienceUnspecified)} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing default context value %q", want)
		}
	}

	got = b.Build("question", Context{Location: "Karnataka", Crop: "Tomato"}, "hi-IN", nil)
	if !strings.Contains(got, "Karnataka") || !strings.Contains(got, "Tomato") {
		t.Error("prompt missing supplied context values")
	}
}

func TestPromptBuilder_FlattensLastTenTurns(t *testing.T) {
	b := NewPromptBuilder("")
	var turns []Turn
	for i := 0; i < 15; i++ {
		turns = append(turns, Turn{Role: "user", Content: fmt.Sprintf("question %d", i)})
	}

	got := b.Build("latest", Context{}, "en-IN", turns)
	if strings.Contains(got, "question 4") {
		t.Error("prompt should only include the last 10 turns")
	}
	for i := 5; i < 15; i++ {
		if !strings.Contains(got, fmt.Sprintf("user: question %d", i)) {
			t.Errorf("prompt missing turn %d as a role: content line", i)
		}
	}
}

func TestPromptBuilder_LanguageAndBudgetInstructions(t *testing.T) {
	b := NewPromptBuilder("")
	got := b.Build("q", Context{}, "te-IN", nil)

	if !strings.Contains(got, "Telugu") {
		t.Error("prompt missing output-language instruction")
	}
	if !strings.Contains(got, fmt.Sprintf("under %d words", MaxWordsFor("te-IN"))) {
		t.Error("prompt missing word-ceiling instruction")
	}
}

func TestPromptBuilder_CustomPersona(t *testing.T) {
	b := NewPromptBuilder("You are KisanSathi, a soil health specialist.")
	got := b.Build("q", Context{}, "en-IN", nil)
	if !strings.HasPrefix(got, "You are KisanSathi") {
		t.Error("custom persona preamble not used")
	}
}
