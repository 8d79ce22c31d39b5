package ai

import (
	"context"

	"github.com/seeker-agent/seeker/internal/job"
)

// Letter is a generated cover letter.
type Letter struct {
	Text string
	Raw  string
}

// Writer produces a cover letter tailored to a posting. Implementations may
// call remote models; failures fall back to the static cover-letter artifact.
type Writer interface {
	Write(ctx context.Context, profile *job.Profile, posting *job.Posting) (*Letter, error)
}
