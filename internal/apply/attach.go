package apply

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/job"
)

// attachResume uploads the resume into a classified file input, falling back
// to checking a stored-resume radio when the portal already holds one.
// Returns the method used, or "" when nothing on the page takes a resume.
func (m *Machine) attachResume(ctx context.Context, classified []classify.Classified) string {
	if m.artifacts.ResumePath == "" {
		return ""
	}

	for _, c := range classified {
		if c.Intent != classify.IntentResumeFile || !c.Field.Enabled {
			continue
		}
		if err := m.page.UploadFile(ctx, c.Field.Selector, m.artifacts.ResumePath); err != nil {
			m.logger.Warn("resume upload failed",
				zap.String("selector", c.Field.Selector),
				zap.Error(err),
			)
			continue
		}
		return "upload"
	}

	// Some portals keep a previously uploaded resume behind a radio choice.
	for _, c := range classified {
		f := c.Field
		if f.Type != "radio" || !f.Visible || !f.Enabled {
			continue
		}
		label := strings.ToLower(f.Label)
		if !strings.Contains(label, "resume") && !strings.Contains(label, ".pdf") {
			continue
		}
		if err := m.page.Check(ctx, f.Selector); err != nil {
			m.logger.Warn("stored resume selection failed", zap.Error(err))
			continue
		}
		return "stored"
	}

	return ""
}

// attachCoverLetter fills a cover letter text area with generated text when a
// writer is configured, or uploads the letter file into a dedicated upload
// field. Text beats upload when both are present.
func (m *Machine) attachCoverLetter(ctx context.Context, profile *job.Profile, posting *job.Posting, classified []classify.Classified) string {
	var textField, fileField *classify.FieldDescriptor
	for _, c := range classified {
		switch c.Intent {
		case classify.IntentCoverLetterText:
			if textField == nil && fillable(c) {
				textField = c.Field
			}
		case classify.IntentCoverLetterFile:
			if fileField == nil && c.Field.Enabled {
				fileField = c.Field
			}
		}
	}

	if textField != nil && m.letters != nil {
		letter, err := m.letters.Write(ctx, profile, posting)
		if err != nil {
			m.logger.Warn("cover letter generation failed", zap.Error(err))
		} else if err := m.page.Fill(ctx, textField.Selector, letter.Text); err != nil {
			m.logger.Warn("cover letter fill failed", zap.Error(err))
		} else {
			return "text"
		}
	}

	if fileField != nil && m.artifacts.CoverLetterPath != "" {
		if err := m.page.UploadFile(ctx, fileField.Selector, m.artifacts.CoverLetterPath); err != nil {
			m.logger.Warn("cover letter upload failed", zap.Error(err))
			return ""
		}
		return "upload"
	}

	return ""
}
