package evaluate

import (
	"strings"
	"testing"

	"github.com/seeker-agent/seeker/internal/job"
)

func TestTitleSimilarityBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		title  string
		want   func(int) bool
	}{
		{
			name:   "identical titles score 100",
			target: "Machine Learning Engineer",
			title:  "machine learning engineer",
			want:   func(s int) bool { return s == 100 },
		},
		{
			name:   "empty target scores zero",
			target: "",
			title:  "Backend Developer",
			want:   func(s int) bool { return s == 0 },
		},
		{
			name:   "empty title scores zero",
			target: "Backend Developer",
			title:  "",
			want:   func(s int) bool { return s == 0 },
		},
		{
			name:   "unrelated titles stay in range",
			target: "Data Scientist",
			title:  "Forklift Operator",
			want:   func(s int) bool { return s >= 0 && s <= 100 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TitleSimilarity(tt.target, tt.title)
			if !tt.want(got) {
				t.Fatalf("unexpected score %d", got)
			}
		})
	}
}

func TestSkillOverlap(t *testing.T) {
	t.Parallel()

	skills := []string{"python", "SQL", "pandas", "python"}
	description := "We need Python and sql experience. Pandas is a plus."

	got := SkillOverlap(skills, description)
	if got != 3 {
		t.Fatalf("expected 3 matched skills, got %d", got)
	}

	if got > len(skills) {
		t.Fatalf("overlap %d exceeds skill count %d", got, len(skills))
	}

	if SkillOverlap(skills, "unrelated text") != 0 {
		t.Fatalf("expected zero overlap for unrelated text")
	}
}

func TestExperienceRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "plus form", text: "Requires 8+ years of Go", want: 8},
		{name: "plain form", text: "at least 5 years in backend", want: 5},
		{name: "absent", text: "no requirement stated", want: 0},
		{name: "first match wins", text: "3+ years required, 10 years preferred", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExperienceRequired(tt.text); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLocationMatch(t *testing.T) {
	t.Parallel()

	if !LocationMatch("Austin", "Remote - USA") {
		t.Fatalf("remote posting should always match")
	}
	if !LocationMatch("Austin", "Austin, TX") {
		t.Fatalf("substring location should match")
	}
	if LocationMatch("Austin", "New York, NY") {
		t.Fatalf("different city should not match")
	}
}

func TestEvaluateApply(t *testing.T) {
	t.Parallel()

	profile := &job.Profile{
		Location:        "Austin",
		Skills:          []string{"python", "sql", "pandas"},
		ExperienceYears: 4,
	}
	posting := &job.Posting{
		Title:       "Machine Learning Engineer",
		Location:    "Remote",
		Description: "We use python, sql, and pandas daily. 3+ years required.",
	}

	decision := Evaluate(profile, posting, Thresholds{
		TargetTitle:   "Machine Learning Engineer",
		MinTitleMatch: 70,
		MinSkillMatch: 2,
		MaxExtraYears: 2,
	})

	if decision.Verdict != VerdictApply {
		t.Fatalf("expected APPLY, got %s with reasons %v", decision.Verdict, decision.Reasons)
	}
	if len(decision.Reasons) != 0 {
		t.Fatalf("apply decision must have no reasons, got %v", decision.Reasons)
	}
}

func TestEvaluateExperienceExceeded(t *testing.T) {
	t.Parallel()

	profile := &job.Profile{
		Location:        "Austin",
		Skills:          []string{"python", "sql"},
		ExperienceYears: 3,
	}
	posting := &job.Posting{
		Title:       "Machine Learning Engineer",
		Location:    "Remote",
		Description: "python and sql shop. 8+ years required.",
	}

	decision := Evaluate(profile, posting, Thresholds{
		TargetTitle:   "Machine Learning Engineer",
		MinTitleMatch: 70,
		MinSkillMatch: 2,
		MaxExtraYears: 2,
	})

	if decision.Verdict != VerdictSkip {
		t.Fatalf("expected SKIP, got %s", decision.Verdict)
	}

	found := false
	for _, reason := range decision.Reasons {
		if reason == "Experience exceeds limit (8 years > 5 years)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected experience reason, got %v", decision.Reasons)
	}
}

func TestEvaluateCollectsAllReasons(t *testing.T) {
	t.Parallel()

	profile := &job.Profile{
		Location:        "Austin",
		Skills:          []string{"go"},
		ExperienceYears: 1,
	}
	posting := &job.Posting{
		Title:       "Senior Underwater Basket Weaver",
		Location:    "Oslo, Norway",
		Description: "10+ years weaving in java and kotlin.",
	}

	decision := Evaluate(profile, posting, Thresholds{
		TargetTitle:   "Machine Learning Engineer",
		MinTitleMatch: 90,
		MinSkillMatch: 1,
		MaxExtraYears: 1,
	})

	if decision.Verdict != VerdictSkip {
		t.Fatalf("expected SKIP, got %s", decision.Verdict)
	}

	// Every failed filter contributes a reason; nothing short-circuits.
	if len(decision.Reasons) != 4 {
		t.Fatalf("expected 4 reasons, got %d: %v", len(decision.Reasons), decision.Reasons)
	}
}

func TestDecisionReasonsMatchVerdict(t *testing.T) {
	t.Parallel()

	profile := &job.Profile{Location: "Austin", Skills: []string{"go"}, ExperienceYears: 5}
	postings := []*job.Posting{
		{Title: "Go Developer", Location: "Remote", Description: "go services, 2+ years"},
		{Title: "Chef", Location: "Paris", Description: "cooking"},
	}

	for _, posting := range postings {
		decision := Evaluate(profile, posting, Thresholds{
			TargetTitle:   "Go Developer",
			MinTitleMatch: 70,
			MinSkillMatch: 1,
			MaxExtraYears: 2,
		})

		isApply := decision.Verdict == VerdictApply
		isEmpty := len(decision.Reasons) == 0
		if isApply != isEmpty {
			t.Fatalf("verdict %s with reasons %v violates invariant", decision.Verdict, decision.Reasons)
		}
	}
}

func TestDecisionSummary(t *testing.T) {
	t.Parallel()

	decision := Decision{
		Verdict:            VerdictSkip,
		TitleScore:         40,
		SkillScore:         1,
		ExperienceRequired: 8,
		UserExperience:     3,
		Reasons:            []string{"Low title match (40% < 70%)"},
	}

	summary := decision.Summary()
	if !strings.Contains(summary, "SKIP") {
		t.Fatalf("summary missing verdict: %s", summary)
	}
	if !strings.Contains(summary, "Low title match (40% < 70%)") {
		t.Fatalf("summary missing reason: %s", summary)
	}
}
