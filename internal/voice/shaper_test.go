package voice

import (
	"strings"
	"testing"
)

func TestShape_EmptyInputUnchanged(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n", "\t \n"} {
		if got := Shape(in, "en-IN"); got != in {
			t.Errorf("Shape(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestShape_CollapsesConsecutiveDuplicateLines(t *testing.T) {
	in := "Use neem oil spray.\nUse neem oil spray.\n\nApply 5ml per litre."
	got := Shape(in, "en-IN")

	if strings.Count(got, "Use neem oil spray.") != 1 {
		t.Errorf("duplicate line not collapsed: %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Errorf("blank line for paragraph spacing was not preserved: %q", got)
	}
}

func TestShape_KeepsNonConsecutiveDuplicates(t *testing.T) {
	in := "Water daily.\nCheck the soil.\nWater daily."
	got := Shape(in, "en-IN")
	if strings.Count(got, "Water daily.") != 2 {
		t.Errorf("non-consecutive duplicates should be kept: %q", got)
	}
}

func TestShape_StripsFillerPhrases(t *testing.T) {
	in := "Hello farmer! Spray copper fungicide on the affected leaves."
	got := Shape(in, "en-IN")
	if strings.Contains(strings.ToLower(got), "hello farmer") {
		t.Errorf("filler phrase not stripped: %q", got)
	}
	if !strings.Contains(got, "copper fungicide") {
		t.Errorf("content lost while stripping fillers: %q", got)
	}
}

func TestShape_CollapsesNewlineRuns(t *testing.T) {
	in := "First step.\n\n\n\nSecond step."
	got := Shape(in, "en-IN")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("newline run not collapsed: %q", got)
	}
	if !strings.Contains(got, "First step.\n\nSecond step.") {
		t.Errorf("paragraph break lost: %q", got)
	}
}

func TestShape_CollapsesDuplicatesRevealedByFillerRemoval(t *testing.T) {
	// The two lines only become identical once the greeting is stripped;
	// one pass must still collapse them.
	in := "Hello farmer! Check drainage.\nCheck drainage.\n\nThen irrigate."
	got := Shape(in, "en-IN")

	if strings.Count(got, "Check drainage.") != 1 {
		t.Errorf("duplicate revealed by filler removal not collapsed: %q", got)
	}
	if got != Shape(got, "en-IN") {
		t.Errorf("Shape did not reach a fixed point in one pass: %q", got)
	}
}

func TestShape_TruncatesOverBudgetTextEndingInCue(t *testing.T) {
	cue := continueCueFor("en-IN")
	in := strings.Repeat("advice ", 100) + cue
	got := Shape(in, "en-IN")

	if WordCount(got) > MaxWordsFor("en-IN") {
		t.Errorf("over-budget text ending in the cue was not truncated: %d words", WordCount(got))
	}
	if !strings.HasSuffix(got, "... "+cue) {
		t.Errorf("truncated text missing the cued marker: %q", got)
	}
}

func TestShape_EnforcesWordBudget(t *testing.T) {
	longText := strings.Repeat("advice ", 200)
	for _, tag := range []string{"en-IN", "hi-IN", "te-IN", "ta-IN"} {
		got := Shape(longText, tag)
		budget := MaxWordsFor(tag)
		if WordCount(got) > budget {
			t.Errorf("%s: shaped word count %d exceeds budget %d", tag, WordCount(got), budget)
		}
		if !strings.HasSuffix(got, continueCueFor(tag)) {
			t.Errorf("%s: truncated text missing continuation cue: %q", tag, got)
		}
	}
}

func TestShape_NoCueWhenUnderBudget(t *testing.T) {
	in := "Spray neem oil in the evening."
	got := Shape(in, "en-IN")
	if strings.HasSuffix(got, continueCueFor("en-IN")) {
		t.Errorf("cue appended to text under budget: %q", got)
	}
	if got != in {
		t.Errorf("short clean text should pass through: got %q", got)
	}
}

func TestShape_Idempotent(t *testing.T) {
	inputs := []string{
		"Spray neem oil in the evening.",
		strings.Repeat("use balanced fertilizer ", 40),
		"Hello farmer! Check drainage.\nCheck drainage.\n\n\n\nThen irrigate.",
		"line\nline\nline",
	}
	for _, tag := range []string{"en-IN", "hi-IN", "bn-IN"} {
		for _, in := range inputs {
			once := Shape(in, tag)
			twice := Shape(once, tag)
			if once != twice {
				t.Errorf("%s: Shape not idempotent:\n once: %q\ntwice: %q", tag, once, twice)
			}
		}
	}
}

func TestShape_UnknownLanguageFallsBackToDefaultRules(t *testing.T) {
	longText := strings.Repeat("salaah ", 100)
	got := Shape(longText, "fr-FR")
	if WordCount(got) > MaxWordsFor(DefaultLanguage) {
		t.Errorf("unknown language should use default budget, got %d words", WordCount(got))
	}
	if !strings.HasSuffix(got, continueCueFor(DefaultLanguage)) {
		t.Errorf("unknown language should use default cue: %q", got)
	}
}
