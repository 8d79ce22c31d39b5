// Package evaluate implements the decision engine that turns a posting, a
// candidate profile and the configured thresholds into a deterministic
// apply-or-skip verdict with reasons.
package evaluate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/seeker-agent/seeker/internal/job"
)

// Verdict is the outcome of evaluating a posting.
type Verdict string

const (
	VerdictApply Verdict = "APPLY"
	VerdictSkip  Verdict = "SKIP"
)

// Thresholds holds the configured matching filters.
type Thresholds struct {
	// TargetTitle is the role the candidate is looking for.
	TargetTitle string
	// MinTitleMatch is the minimum fuzzy title similarity (0-100).
	MinTitleMatch int
	// MinSkillMatch is the minimum number of overlapping skills.
	MinSkillMatch int
	// MaxExtraYears is how far past the profile's experience a posting's
	// requirement may go before it is rejected.
	MaxExtraYears float64
}

// Decision is the full evaluation result. Reasons is empty exactly when the
// verdict is apply; otherwise it lists every failed filter, not just the first.
type Decision struct {
	Verdict            Verdict
	TitleScore         int
	SkillScore         int
	ExperienceRequired int
	UserExperience     float64
	MaxExperience      float64
	Reasons            []string
}

var experienceRe = regexp.MustCompile(`(\d+)\+?\s+years`)

// TitleSimilarity computes a fuzzy token-set similarity between the target
// title and the posting title, in the range 0-100. Empty input scores zero.
func TitleSimilarity(targetTitle, postingTitle string) int {
	if targetTitle == "" || postingTitle == "" {
		return 0
	}
	return fuzzy.TokenSetRatio(strings.ToLower(targetTitle), strings.ToLower(postingTitle))
}

// SkillOverlap counts distinct profile skills whose text appears as a
// case-insensitive substring of the description.
func SkillOverlap(skills []string, description string) int {
	text := strings.ToLower(description)
	matched := make(map[string]struct{})

	for _, skill := range skills {
		lowered := strings.ToLower(skill)
		if lowered == "" {
			continue
		}
		if strings.Contains(text, lowered) {
			matched[lowered] = struct{}{}
		}
	}

	return len(matched)
}

// ExperienceRequired extracts the first "<N>+ years" requirement from the
// description. Returns zero when the pattern is absent.
func ExperienceRequired(description string) int {
	match := experienceRe.FindStringSubmatch(strings.ToLower(description))
	if match == nil {
		return 0
	}
	years, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return years
}

// LocationMatch reports whether the posting location is acceptable: remote
// postings always match, otherwise the profile location must appear as a
// substring of the posting location.
func LocationMatch(profileLocation, postingLocation string) bool {
	lowered := strings.ToLower(postingLocation)
	if strings.Contains(lowered, "remote") {
		return true
	}
	return strings.Contains(lowered, strings.ToLower(profileLocation))
}

// Evaluate runs every filter and collects a reason for each failure. All
// filters run regardless of earlier failures so the operator can see every
// disqualifying factor at once.
func Evaluate(profile *job.Profile, posting *job.Posting, t Thresholds) Decision {
	score := TitleSimilarity(t.TargetTitle, posting.Title)
	skills := SkillOverlap(profile.Skills, posting.Description)
	required := ExperienceRequired(posting.Description)
	maxExp := profile.ExperienceYears + t.MaxExtraYears

	decision := Decision{
		Verdict:            VerdictSkip,
		TitleScore:         score,
		SkillScore:         skills,
		ExperienceRequired: required,
		UserExperience:     profile.ExperienceYears,
		MaxExperience:      maxExp,
	}

	if score < t.MinTitleMatch {
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("Low title match (%d%% < %d%%)", score, t.MinTitleMatch))
	}

	if skills < t.MinSkillMatch {
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("Insufficient skill match (%d < %d)", skills, t.MinSkillMatch))
	}

	if float64(required) > maxExp {
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("Experience exceeds limit (%d years > %s years)", required, formatYears(maxExp)))
	}

	if !LocationMatch(profile.Location, posting.Location) {
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("Location mismatch (%s vs %s)", profile.Location, posting.Location))
	}

	if len(decision.Reasons) == 0 {
		decision.Verdict = VerdictApply
	}

	return decision
}

// Summary renders a human-readable report of the decision.
func (d Decision) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", d.Verdict)
	fmt.Fprintf(&b, "Title Match: %d%%\n", d.TitleScore)
	fmt.Fprintf(&b, "Skill Match: %d skills\n", d.SkillScore)
	fmt.Fprintf(&b, "Experience: %d years required (you have %s)\n", d.ExperienceRequired, formatYears(d.UserExperience))

	if len(d.Reasons) > 0 {
		b.WriteString("Reasons:\n")
		for _, reason := range d.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}

	return b.String()
}

func formatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}
