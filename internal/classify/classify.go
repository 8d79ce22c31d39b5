// Package classify maps raw form-field metadata onto a fixed set of semantic
// intents. Classification is driven by an ordered rule table evaluated
// top-down with first-match-wins semantics: once a rule claims a field, later
// rules never see it. Order is load-bearing because keyword sets overlap (a
// "Work Email Address" field matches both the email rule and the location
// rule's "address" keyword).
package classify

import (
	"strings"
)

// Intent is the semantic purpose inferred for a form field.
type Intent string

const (
	IntentEmail           Intent = "email"
	IntentPhone           Intent = "phone"
	IntentFullName        Intent = "full_name"
	IntentFirstName       Intent = "first_name"
	IntentLastName        Intent = "last_name"
	IntentLocation        Intent = "location"
	IntentCoverLetterText Intent = "cover_letter_text"
	IntentCoverLetterFile Intent = "cover_letter_file"
	IntentResumeFile      Intent = "resume_file"
	IntentWorkAuth        Intent = "work_authorization"
	IntentSponsorship     Intent = "sponsorship"
	IntentRelocation      Intent = "relocation"
	IntentRemote          Intent = "remote"
	IntentStartDate       Intent = "start_date"
	IntentSalary          Intent = "salary"
	IntentExperienceYears Intent = "experience_years"
	IntentSubmit          Intent = "submit"
	IntentContinue        Intent = "continue"
	IntentUnknown         Intent = "unknown"
)

// Option is one entry of an enumerated input (select element).
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// FieldDescriptor is an ephemeral snapshot of one interactive element.
// Label is already resolved by the page transport using its fallback chain;
// the classifier never resolves labels itself.
type FieldDescriptor struct {
	Selector    string   `json:"selector"`
	Tag         string   `json:"tag"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Placeholder string   `json:"placeholder"`
	Label       string   `json:"label"`
	Text        string   `json:"text"`
	Required    bool     `json:"required"`
	Visible     bool     `json:"visible"`
	Enabled     bool     `json:"enabled"`
	Value       string   `json:"value,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Searchable builds the single lowered string the keyword rules run against.
func (f *FieldDescriptor) Searchable() string {
	return strings.ToLower(strings.Join([]string{f.Name, f.ID, f.Placeholder, f.Label, f.Text}, " "))
}

// Rule is one classification step. TypeEquals and TagEquals are exact
// attribute predicates; AllOf requires every keyword as a substring; AnyOf
// requires at least one. Empty predicate parts always pass, so a rule with
// only TypeEquals set is a pure type-attribute rule.
type Rule struct {
	Name       string
	Intent     Intent
	TypeEquals string
	TagEquals  string
	AllOf      []string
	AnyOf      []string
}

// match reports whether the rule claims the field and returns the keywords
// that hit.
func (r *Rule) match(f *FieldDescriptor, searchable string) (bool, []string) {
	if r.TypeEquals != "" && !strings.EqualFold(f.Type, r.TypeEquals) {
		return false, nil
	}
	if r.TagEquals != "" && !strings.EqualFold(f.Tag, r.TagEquals) {
		return false, nil
	}

	var hits []string

	for _, kw := range r.AllOf {
		if !strings.Contains(searchable, kw) {
			return false, nil
		}
		hits = append(hits, kw)
	}

	if len(r.AnyOf) > 0 {
		found := false
		for _, kw := range r.AnyOf {
			if strings.Contains(searchable, kw) {
				hits = append(hits, kw)
				found = true
			}
		}
		if !found {
			return false, nil
		}
	}

	return true, hits
}

// Classified pairs a descriptor with the intent and keyword evidence that
// claimed it.
type Classified struct {
	Field    *FieldDescriptor
	Intent   Intent
	Rule     string
	Keywords []string
}

// DefaultRules returns the ordered rule table. Explicit type-attribute rules
// come before their keyword-substring counterparts; file-upload
// disambiguation (cover letter vs resume) precedes the generic file rule.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "email_type", Intent: IntentEmail, TypeEquals: "email"},
		{Name: "phone_type", Intent: IntentPhone, TypeEquals: "tel"},
		{Name: "cover_letter_file", Intent: IntentCoverLetterFile, TypeEquals: "file", AnyOf: []string{"cover", "letter", "cl_"}},
		{Name: "resume_file", Intent: IntentResumeFile, TypeEquals: "file"},
		{Name: "continue_button", Intent: IntentContinue, TagEquals: "button", AnyOf: []string{"continue to next step", "continue", "next"}},
		{Name: "submit_button", Intent: IntentSubmit, TagEquals: "button", AnyOf: []string{"submit your application", "submit application", "submit", "send application", "apply"}},
		{Name: "submit_type", Intent: IntentSubmit, TypeEquals: "submit"},
		{Name: "cover_letter_text", Intent: IntentCoverLetterText, AnyOf: []string{
			"cover letter", "cover_letter", "coverletter",
			"message to", "message for", "additional message",
			"why are you interested", "tell us about",
		}},
		{Name: "work_authorization", Intent: IntentWorkAuth, AnyOf: []string{
			"authorized to work", "legally authorized", "work authorization", "eligible to work",
		}},
		{Name: "sponsorship", Intent: IntentSponsorship, AnyOf: []string{"sponsorship", "require visa", "visa sponsorship"}},
		{Name: "relocation", Intent: IntentRelocation, AnyOf: []string{"relocate", "willing to move"}},
		{Name: "email_keyword", Intent: IntentEmail, AnyOf: []string{"email"}},
		{Name: "phone_keyword", Intent: IntentPhone, AnyOf: []string{"phone", "mobile", "tel"}},
		{Name: "full_name", Intent: IntentFullName, AllOf: []string{"full", "name"}},
		{Name: "full_name_joined", Intent: IntentFullName, AnyOf: []string{"fullname"}},
		{Name: "first_name", Intent: IntentFirstName, AllOf: []string{"first", "name"}},
		{Name: "first_name_joined", Intent: IntentFirstName, AnyOf: []string{"firstname"}},
		{Name: "last_name", Intent: IntentLastName, AllOf: []string{"last", "name"}},
		{Name: "last_name_joined", Intent: IntentLastName, AnyOf: []string{"lastname"}},
		{Name: "experience_years", Intent: IntentExperienceYears, AllOf: []string{"years", "experience"}},
		{Name: "start_date", Intent: IntentStartDate, AnyOf: []string{"start date", "start", "available", "when can"}},
		{Name: "salary", Intent: IntentSalary, AnyOf: []string{"salary", "compensation", "pay"}},
		{Name: "remote", Intent: IntentRemote, AnyOf: []string{"remote", "work from home"}},
		{Name: "location", Intent: IntentLocation, AnyOf: []string{"location", "city", "address"}},
	}
}

// Classifier evaluates fields against an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over the provided table, or the default table
// when none is given.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// ClassifyField maps a single descriptor to an intent. Unmatched fields map
// to IntentUnknown and are inert for filling.
func (c *Classifier) ClassifyField(f *FieldDescriptor) Classified {
	searchable := f.Searchable()

	for i := range c.rules {
		rule := &c.rules[i]
		if ok, hits := rule.match(f, searchable); ok {
			return Classified{Field: f, Intent: rule.Intent, Rule: rule.Name, Keywords: hits}
		}
	}

	return Classified{Field: f, Intent: IntentUnknown}
}

// Classify maps every descriptor in order. Each field is consumed by the
// first matching rule and never tested against later ones.
func (c *Classifier) Classify(fields []*FieldDescriptor) []Classified {
	out := make([]Classified, 0, len(fields))
	for _, f := range fields {
		out = append(out, c.ClassifyField(f))
	}
	return out
}
