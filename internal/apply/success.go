package apply

import "strings"

// Confidence is the tier of submission-success evidence.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceUnknown Confidence = "unknown"
)

// The phrase lists are heuristic and site-specific; only the two-tier
// behavior is a contract. Kept as vars so tests and portal tuning can
// override them.
var highConfidencePhrases = []string{
	"application submitted",
	"application has been submitted",
	"thank you for applying",
	"thanks for applying",
	"application received",
	"we received your application",
	"application complete",
	"you have applied",
	"successfully applied",
	"application sent",
}

var mediumConfidencePhrases = []string{
	"thank you",
	"we'll be in touch",
	"next steps",
	"what happens next",
	"confirmation",
}

var successURLTokens = []string{
	"success",
	"confirmation",
	"applied",
	"complete",
	"thank",
}

// DetectSuccess grades the post-submit evidence. High confidence needs an
// exact phrase from the strong list in the page text; medium accepts a
// weaker phrase or a success token in the URL; anything else is unknown and
// must be surfaced for manual verification, never treated as success.
func DetectSuccess(pageText, url string) (Confidence, string) {
	text := strings.ToLower(pageText)

	for _, phrase := range highConfidencePhrases {
		if strings.Contains(text, phrase) {
			return ConfidenceHigh, phrase
		}
	}

	for _, phrase := range mediumConfidencePhrases {
		if strings.Contains(text, phrase) {
			return ConfidenceMedium, phrase
		}
	}

	loweredURL := strings.ToLower(url)
	for _, token := range successURLTokens {
		if strings.Contains(loweredURL, token) {
			return ConfidenceMedium, "url token: " + token
		}
	}

	return ConfidenceUnknown, ""
}
