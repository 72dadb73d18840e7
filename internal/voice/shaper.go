package voice

import (
	"regexp"
	"strings"
)

// newlineRuns matches runs of 3 or more newlines (with optional interleaved
// carriage returns or spaces) for collapsing into a paragraph break.
var newlineRuns = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)

// spaceRuns matches runs of 2+ spaces/tabs left behind by filler removal.
var spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

// Shape normalizes generated advisory text for voice delivery:
//
//  1. collapses consecutive duplicate lines (exact match after trimming),
//     keeping the first occurrence and preserving blank lines,
//  2. strips the language's filler/greeting phrases (case-insensitive),
//     then collapses any duplicates the stripping revealed,
//  3. collapses runs of 3+ newlines to exactly 2,
//  4. enforces the language's word budget, truncating to maxWords-2 words
//     and appending the localized continuation cue when exceeded.
//
// Shape is idempotent: shaping already-shaped text yields the same string,
// and a cued truncation is never truncated again. Empty or whitespace-only
// input is returned unchanged.
func Shape(rawText, languageTag string) string {
	if strings.TrimSpace(rawText) == "" {
		return rawText
	}

	text := collapseDuplicateLines(rawText)
	text = stripFillers(text, languageTag)
	// Stripping can leave two adjacent lines identical; collapse again so a
	// single pass reaches the fixed point.
	text = collapseDuplicateLines(text)
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	return enforceWordBudget(text, languageTag)
}

// collapseDuplicateLines removes consecutive lines whose trimmed content is
// identical. Blank lines are kept so paragraph spacing survives.
func collapseDuplicateLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	prev := ""
	havePrev := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, line)
			havePrev = false
			continue
		}
		if havePrev && trimmed == prev {
			continue
		}
		out = append(out, line)
		prev = trimmed
		havePrev = true
	}
	return strings.Join(out, "\n")
}

// fillerPatterns caches one case-insensitive pattern per language.
var fillerPatterns = map[string]*regexp.Regexp{}

func init() {
	for tag, r := range languages {
		if len(r.Fillers) == 0 {
			continue
		}
		quoted := make([]string, len(r.Fillers))
		for i, f := range r.Fillers {
			quoted[i] = regexp.QuoteMeta(f)
		}
		fillerPatterns[tag] = regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
	}
}

// stripFillers removes the language's filler phrases via case-insensitive
// substring matching, then squeezes the whitespace left behind.
func stripFillers(text, languageTag string) string {
	pattern, ok := fillerPatterns[languageTag]
	if !ok {
		pattern, ok = fillerPatterns[DefaultLanguage]
		if !ok {
			return text
		}
	}
	text = pattern.ReplaceAllString(text, "")
	return spaceRuns.ReplaceAllString(text, " ")
}

// enforceWordBudget truncates text exceeding the language's word budget to
// maxWords-2 words plus the localized continuation cue. Text ending in the
// "... " truncation marker plus the cue has already been truncated and is
// never re-truncated; text that merely ends in the cue is not exempt.
func enforceWordBudget(text, languageTag string) string {
	cue := continueCueFor(languageTag)
	if strings.HasSuffix(strings.TrimSpace(text), "... "+cue) {
		return text
	}

	maxWords := MaxWordsFor(languageTag)
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	kept := words[:maxWords-2]
	return strings.Join(kept, " ") + "... " + cue
}

// WordCount counts whitespace-separated words, the same measure the word
// budget is enforced against.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
