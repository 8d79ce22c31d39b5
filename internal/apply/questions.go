package apply

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/classify"
)

// Screening answers are fixed and conservative: the candidate is authorized,
// needs no sponsorship, is open to relocation and remote work, can start on
// short notice, and leaves compensation open. Anything without a rule here
// stays untouched for the operator to review before the final gate.

// radioAnswers maps a question intent to the substring the chosen radio's
// label must contain.
var radioAnswers = map[classify.Intent]string{
	classify.IntentWorkAuth:    "yes",
	classify.IntentSponsorship: "no",
	classify.IntentRelocation:  "yes",
	classify.IntentRemote:      "yes",
}

// selectAnswers maps a question intent to option-text preferences, most
// preferred first.
var selectAnswers = map[classify.Intent][]string{
	classify.IntentStartDate:       {"two weeks", "2 weeks", "immediately", "asap"},
	classify.IntentSalary:          {"negotiable", "open", "flexible"},
	classify.IntentExperienceYears: {"3", "2-4", "3-5", "mid"},
}

// answerQuestions walks the classified screening fields and applies the
// fixed answer table. Returns how many fields it answered.
func (m *Machine) answerQuestions(ctx context.Context, classified []classify.Classified) int {
	answered := 0
	for _, c := range classified {
		f := c.Field
		if !f.Visible || !f.Enabled {
			continue
		}

		var err error
		var done bool

		switch {
		case f.Type == "radio":
			want, ok := radioAnswers[c.Intent]
			if !ok || !strings.Contains(strings.ToLower(f.Label), want) {
				continue
			}
			err = m.page.Check(ctx, f.Selector)
			done = err == nil

		case f.Tag == "select":
			prefs, ok := selectAnswers[c.Intent]
			if !ok {
				continue
			}
			value := pickOption(f.Options, prefs)
			if value == "" {
				continue
			}
			err = m.page.SelectOption(ctx, f.Selector, value)
			done = err == nil

		case c.Intent == classify.IntentExperienceYears && fillable(c):
			if f.Value != "" {
				continue
			}
			err = m.page.Fill(ctx, f.Selector, "3")
			done = err == nil

		case c.Intent == classify.IntentSalary && f.Type == "number":
			if f.Value != "" {
				continue
			}
			err = m.page.Fill(ctx, f.Selector, "0")
			done = err == nil

		default:
			continue
		}

		if err != nil {
			m.logger.Warn("screening answer failed",
				zap.String("intent", string(c.Intent)),
				zap.Error(err),
			)
			continue
		}
		if done {
			m.logger.Debug("answered screening field", zap.String("intent", string(c.Intent)))
			answered++
		}
	}
	return answered
}

// pickOption returns the value of the first option whose text contains one
// of the preferences, in preference order.
func pickOption(options []classify.Option, prefs []string) string {
	for _, pref := range prefs {
		for _, opt := range options {
			if strings.Contains(strings.ToLower(opt.Text), pref) {
				return opt.Value
			}
		}
	}
	return ""
}
