package apply

import (
	"strings"

	"github.com/seeker-agent/seeker/internal/classify"
)

// controlPattern is one rung of a priority ladder over page controls.
// Ladders are scanned in order and the first usable match wins, so the
// most specific patterns must come first.
type controlPattern struct {
	name  string
	match func(f *classify.FieldDescriptor) bool
}

func clickable(f *classify.FieldDescriptor) bool {
	return f.Visible && f.Enabled
}

func isButton(f *classify.FieldDescriptor) bool {
	return f.Tag == "button" || (f.Tag == "input" && (f.Type == "submit" || f.Type == "button"))
}

func textContains(f *classify.FieldDescriptor, want string) bool {
	return strings.Contains(strings.ToLower(f.Text), want)
}

// applyPatterns locates the control that starts an application. Portal
// specific hooks first, then the common button texts, anchors last since
// they often lead off-site.
var applyPatterns = []controlPattern{
	{"easy apply id", func(f *classify.FieldDescriptor) bool {
		id := strings.ToLower(f.ID)
		return strings.Contains(id, "indeedapply") || strings.Contains(id, "easy-apply") || strings.Contains(id, "easyapply")
	}},
	{"apply now button", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "apply now")
	}},
	{"apply now link", func(f *classify.FieldDescriptor) bool {
		return f.Tag == "a" && textContains(f, "apply now")
	}},
	{"apply button", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "apply")
	}},
	{"company site link", func(f *classify.FieldDescriptor) bool {
		return f.Tag == "a" && textContains(f, "apply on company site")
	}},
	{"apply link", func(f *classify.FieldDescriptor) bool {
		return f.Tag == "a" && textContains(f, "apply")
	}},
}

// submitPatterns locates the final submit control. Explicit submit texts
// outrank the bare type=submit input so a form with both a "Save draft"
// submit input and a "Submit application" button picks the right one.
var submitPatterns = []controlPattern{
	{"submit your application", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "submit your application")
	}},
	{"submit application", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "submit application")
	}},
	{"submit", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "submit")
	}},
	{"send application", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "send application")
	}},
	{"apply", func(f *classify.FieldDescriptor) bool {
		return isButton(f) && textContains(f, "apply")
	}},
	{"type submit", func(f *classify.FieldDescriptor) bool {
		return f.Type == "submit"
	}},
}

// findControl returns the first visible, enabled field matched by the
// ladder, with the name of the pattern that claimed it.
func findControl(fields []*classify.FieldDescriptor, patterns []controlPattern) (*classify.FieldDescriptor, string) {
	for _, p := range patterns {
		for _, f := range fields {
			if clickable(f) && p.match(f) {
				return f, p.name
			}
		}
	}
	return nil, ""
}

// findContinue returns the first control already classified as a continue
// action.
func findContinue(classified []classify.Classified) *classify.FieldDescriptor {
	for _, c := range classified {
		if c.Intent == classify.IntentContinue && clickable(c.Field) {
			return c.Field
		}
	}
	return nil
}
