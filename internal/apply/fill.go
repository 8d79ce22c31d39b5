package apply

import (
	"context"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/job"
)

// fillable reports whether a classified field can take typed text.
func fillable(c classify.Classified) bool {
	f := c.Field
	if !f.Visible || !f.Enabled {
		return false
	}
	return f.Tag == "input" || f.Tag == "textarea"
}

// fillPersonal types the candidate's contact details into every field whose
// intent calls for them. Individual fill failures are logged and skipped;
// a field the portal rejects must not sink the whole application.
func (m *Machine) fillPersonal(ctx context.Context, profile *job.Profile, classified []classify.Classified) int {
	values := map[classify.Intent]string{
		classify.IntentEmail:     profile.Email,
		classify.IntentPhone:     profile.Phone,
		classify.IntentFullName:  profile.Name,
		classify.IntentFirstName: profile.FirstName(),
		classify.IntentLastName:  profile.LastName(),
		classify.IntentLocation:  profile.Location,
	}

	filled := 0
	for _, c := range classified {
		value, ok := values[c.Intent]
		if !ok || value == "" || !fillable(c) {
			continue
		}
		if c.Field.Value != "" {
			continue
		}
		if err := m.page.Fill(ctx, c.Field.Selector, value); err != nil {
			m.logger.Warn("fill failed",
				zap.String("intent", string(c.Intent)),
				zap.String("selector", c.Field.Selector),
				zap.Error(err),
			)
			continue
		}
		m.logger.Debug("filled field",
			zap.String("intent", string(c.Intent)),
			zap.String("rule", c.Rule),
		)
		filled++
	}
	return filled
}
