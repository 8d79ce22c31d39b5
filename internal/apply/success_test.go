package apply

import "testing"

func TestDetectSuccess(t *testing.T) {
	cases := []struct {
		name string
		text string
		url  string
		want Confidence
	}{
		{
			name: "exact phrase is high confidence",
			text: "Application submitted! We will review your details.",
			url:  "https://jobs.example.com/form",
			want: ConfidenceHigh,
		},
		{
			name: "weak phrase is medium confidence",
			text: "Thank you. Our team will review next steps with you.",
			url:  "https://jobs.example.com/form",
			want: ConfidenceMedium,
		},
		{
			name: "url token alone is medium confidence",
			text: "Redirecting...",
			url:  "https://jobs.example.com/apply/confirmation",
			want: ConfidenceMedium,
		},
		{
			name: "no evidence is unknown",
			text: "Please review your application before continuing.",
			url:  "https://jobs.example.com/form/step2",
			want: ConfidenceUnknown,
		},
		{
			name: "phrase match is case insensitive",
			text: "THANK YOU FOR APPLYING",
			url:  "",
			want: ConfidenceHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := DetectSuccess(tc.text, tc.url)
			if got != tc.want {
				t.Errorf("DetectSuccess() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectSuccessReportsEvidence(t *testing.T) {
	_, evidence := DetectSuccess("We received your application.", "")
	if evidence != "we received your application" {
		t.Errorf("evidence = %q, want the matched phrase", evidence)
	}
}
