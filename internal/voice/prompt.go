package voice

import (
	"fmt"
	"strings"
)

// maxPriorTurns caps how much conversation history is flattened into a prompt.
const maxPriorTurns = 10

// DefaultPersona is the advisor preamble used when no override is configured.
const DefaultPersona = `You are "FarmMitra", an expert agricultural advisor with 20+ years of experience helping Indian farmers. You understand crops (wheat, rice, cotton, sugarcane, vegetables, fruits, pulses), pests and diseases (bollworm, aphids, whitefly, stem borer, leaf curl, blight), treatments (neem oil, copper fungicide, bio-pesticides), the Kharif/Rabi/Zaid seasons, monsoon and drought management, and government schemes (PM-KISAN, crop insurance, soil health cards).`

// Context field defaults substituted when the caller leaves them empty.
const (
	defaultLocation = "India"
	defaultSeason   = "Current season"
	defaultCrop     = "Mixed farming"
)

// PromptBuilder composes the advisory prompt sent to the generative backend.
// Pure string composition: no I/O, no side effects, stable under repeated
// calls with identical input.
type PromptBuilder struct {
	persona string
}

// NewPromptBuilder creates a builder with the given persona preamble.
// An empty persona falls back to DefaultPersona.
func NewPromptBuilder(persona string) *PromptBuilder {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	return &PromptBuilder{persona: persona}
}

// Build assembles the full prompt: persona, farmer context block, up to the
// last 10 prior turns as "role: content" lines, the farmer's question, and
// the output-language plus word-ceiling instructions.
func (b *PromptBuilder) Build(userQuery string, fctx Context, languageTag string, priorTurns []Turn) string {
	var sb strings.Builder

	sb.WriteString(b.persona)
	sb.WriteString("\n\nFARMER CONTEXT:\n")
	sb.WriteString(fmt.Sprintf("Location: %s | Season: %s | Crop: %s | Experience: %s\n",
		orDefault(fctx.Location, defaultLocation),
		orDefault(fctx.Season, defaultSeason),
		orDefault(fctx.Crop, defaultCrop),
		experienceOrDefault(fctx.Experience),
	))

	if len(priorTurns) > 0 {
		turns := priorTurns
		if len(turns) > maxPriorTurns {
			turns = turns[len(turns)-maxPriorTurns:]
		}
		sb.WriteString("\nPrevious conversation:\n")
		for _, t := range turns {
			sb.WriteString(t.Role)
			sb.WriteString(": ")
			sb.WriteString(t.Content)
			sb.WriteString("\n")
		}
	}

	langName := LanguageName(languageTag)
	sb.WriteString(fmt.Sprintf("\nFARMER'S QUESTION: %q\n", userQuery))
	sb.WriteString("\nRESPONSE GUIDELINES:\n")
	sb.WriteString(fmt.Sprintf("- Respond ONLY in %s, using simple farmer-friendly words\n", langName))
	sb.WriteString("- Give specific, actionable steps with quantities and timing\n")
	sb.WriteString("- Mention cost-effective solutions available locally\n")
	sb.WriteString(fmt.Sprintf("- Keep the response under %d words\n", MaxWordsFor(languageTag)))
	sb.WriteString(fmt.Sprintf("\nNow respond as FarmMitra in %s:", langName))

	return sb.String()
}

// BuildMock assembles the mock-flavored prompt used by the fallback engine.
// Same structure as Build but without conversation history and with a looser,
// encouraging register.
func (b *PromptBuilder) BuildMock(userQuery string, fctx Context, languageTag string) string {
	langName := LanguageName(languageTag)
	var sb strings.Builder

	sb.WriteString(b.persona)
	sb.WriteString("\n\nCONTEXT:\n")
	sb.WriteString(fmt.Sprintf("Location: %s | Season: %s | Crop: %s | Experience: %s\n",
		orDefault(fctx.Location, defaultLocation),
		orDefault(fctx.Season, defaultSeason),
		orDefault(fctx.Crop, defaultCrop),
		experienceOrDefault(fctx.Experience),
	))
	sb.WriteString(fmt.Sprintf("\nFARMER ASKS: %q\n", userQuery))
	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString(fmt.Sprintf("- Respond ONLY in %s\n", langName))
	sb.WriteString("- Give specific, actionable advice with quantities, timing, and costs\n")
	sb.WriteString("- Be encouraging and practical\n")
	sb.WriteString(fmt.Sprintf("- Keep the response under %d words\n", MaxWordsFor(languageTag)))
	sb.WriteString(fmt.Sprintf("\nRespond as expert FarmMitra in %s:", langName))

	return sb.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func experienceOrDefault(e Experience) Experience {
	if e == "" {
		return ExperienceUnspecified
	}
	return e
}
