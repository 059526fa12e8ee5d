// Package intent turns a free-text SMS reply into a structured Intent.
//
// Classification is pure and order-sensitive: a yes/no keyword anywhere in
// the message wins over a list separator, so "yes, finish report" is a
// completion report rather than a goal list.
package intent

import (
	"regexp"
	"strings"

	"github.com/templui/smsgoals/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Kind int

const (
	Freeform Kind = iota
	SetGoals
	ReportCompletion
)

func (k Kind) String() string {
	switch k {
	case SetGoals:
		return "set_goals"
	case ReportCompletion:
		return "report_completion"
	default:
		return "freeform"
	}
}

// Intent is the classified meaning of one inbound message. Only the field
// matching Kind is populated.
type Intent struct {
	Kind  Kind
	Goals []string // SetGoals
	Flags []bool   // ReportCompletion
	Text  string   // Freeform, the trimmed message

	// PriorGoals is the goal count of the record the flags will be matched
	// against, or -1 when no prior record was supplied.
	PriorGoals int
}

// Mismatch reports whether a completion report disagrees with the prior
// record's goal count.
func (i Intent) Mismatch() bool {
	return i.Kind == ReportCompletion && i.PriorGoals >= 0 && len(i.Flags) != i.PriorGoals
}

var (
	keywordRe = regexp.MustCompile(`\b(yes|no)\b`)
)

const affirmative = "yes"

// Classify decides the intent of message. prior is the record a completion
// report would apply to and may be nil.
func Classify(message string, prior *model.GoalRecord) Intent {
	priorGoals := -1
	if prior != nil {
		priorGoals = len(prior.Goals)
	}

	// NFKC folds full-width commas and letters that phone keyboards emit.
	normalized := norm.NFKC.String(message)
	folded := cases.Lower(language.Und).String(normalized)

	if keywordRe.MatchString(folded) {
		return Intent{
			Kind:       ReportCompletion,
			Flags:      parseFlags(folded),
			PriorGoals: priorGoals,
		}
	}

	if hasSeparator(normalized) {
		goals := parseGoals(normalized)
		if len(goals) > 0 {
			return Intent{Kind: SetGoals, Goals: goals, PriorGoals: priorGoals}
		}
	}

	return Intent{Kind: Freeform, Text: strings.TrimSpace(message), PriorGoals: priorGoals}
}

func hasSeparator(s string) bool {
	return strings.ContainsAny(s, ",\n")
}

func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	})
}

// parseGoals keeps the user's casing, trims each entry and drops empties.
func parseGoals(s string) []string {
	var goals []string
	for _, part := range splitSegments(s) {
		part = strings.TrimSpace(part)
		if part != "" {
			goals = append(goals, part)
		}
	}
	return goals
}

// parseFlags maps each segment to true only when it is exactly "yes".
// Empty segments count as answers too, so "yes,,no" has three positions.
func parseFlags(folded string) []bool {
	parts := strings.FieldsFunc(folded, func(r rune) bool { return r == '\n' })
	var flags []bool
	for _, line := range parts {
		for _, seg := range strings.Split(line, ",") {
			flags = append(flags, strings.TrimSpace(seg) == affirmative)
		}
	}
	return flags
}
