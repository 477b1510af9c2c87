package interview

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/quasivo/internal/prompt"
)

const (
	// Placeholder fills question slots the model did not provide.
	Placeholder = "(Placeholder)"
	// ParsedQuestionSlots is the fixed length of ParseQuestions output.
	ParsedQuestionSlots = 4

	lineCutset = " \t\r\n-"
)

// numberedItem matches "1. text", "2) text", "**3.** text" and "### 4. text".
var numberedItem = regexp.MustCompile(`^[*#_\s]*(\d+\s*[.)])[*_]*\s*(.*)$`)

// ParseQuestions turns the raw question completion into exactly
// ParsedQuestionSlots entries. Lines are trimmed of whitespace and hyphens,
// empty lines are dropped and missing entries are filled with Placeholder.
// List numbering such as "1." is kept.
func ParseQuestions(raw string) []string {
	questions := make([]string, 0, ParsedQuestionSlots)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, lineCutset)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == ParsedQuestionSlots {
			break
		}
	}

	for len(questions) < ParsedQuestionSlots {
		questions = append(questions, Placeholder)
	}

	return questions
}

// SelectQuestions picks the prompt.QuestionCount questions to ask from the raw
// completion. Numbered list items anywhere in the output win when there are
// enough of them, which drops lead-in sentences such as "Here are three
// questions:". Markdown emphasis around the number is removed. Otherwise the
// first ParseQuestions entries are used.
func SelectQuestions(raw string) []string {
	numbered := make([]string, 0, prompt.QuestionCount)
	for _, line := range strings.Split(raw, "\n") {
		m := numberedItem.FindStringSubmatch(strings.Trim(line, lineCutset))
		if m == nil {
			continue
		}
		numbered = append(numbered, strings.TrimSpace(m[1]+" "+m[2]))
		if len(numbered) == prompt.QuestionCount {
			return numbered
		}
	}

	selected := make([]string, 0, prompt.QuestionCount)
	for _, q := range ParseQuestions(raw) {
		if len(selected) == prompt.QuestionCount {
			break
		}
		selected = append(selected, q)
	}

	return selected
}

// ParseScore reads the leading integer of the scoring completion. Anything
// unparseable scores 0. The value is not clamped.
func ParseScore(raw string) int {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0
	}

	score, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}

	return score
}
