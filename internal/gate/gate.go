// Package gate holds the human confirmation points of the pipeline. There
// are exactly three: session start, per-job, and the final gate immediately
// before the one submit action. The state machine refuses to submit unless
// the final gate approved; no other code path reaches submission.
package gate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/job"
)

// JobChoice is the operator's answer at the per-job gate.
type JobChoice string

const (
	JobApply JobChoice = "apply"
	JobSkip  JobChoice = "skip"
	JobStop  JobChoice = "stop"
)

const (
	promptApply = "Apply"
	promptSkip  = "Skip"
	promptStop  = "Stop session"

	// submitToken must be typed verbatim at the final gate.
	submitToken = "SUBMIT"
)

// Confirmer answers the three gates. Implementations may block on operator
// input for as long as they need.
type Confirmer interface {
	ConfirmSession(pending int) (bool, error)
	ConfirmJob(posting *job.Posting) (JobChoice, error)
	ConfirmSubmit(posting *job.Posting) (bool, error)
}

// Interactive prompts the operator on the terminal.
type Interactive struct{}

func NewInteractive() *Interactive {
	return &Interactive{}
}

func (i *Interactive) ConfirmSession(pending int) (bool, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Start session (%d pending jobs, real applications will be submitted)?", pending),
		Items: []string{"Yes", "No"},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("session gate: %w", err)
	}
	return answer == "Yes", nil
}

func (i *Interactive) ConfirmJob(posting *job.Posting) (JobChoice, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Apply to %q at %s?", posting.Title, posting.Company),
		Items: []string{promptApply, promptSkip, promptStop},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return JobStop, fmt.Errorf("job gate: %w", err)
	}

	switch answer {
	case promptApply:
		return JobApply, nil
	case promptSkip:
		return JobSkip, nil
	default:
		return JobStop, nil
	}
}

func (i *Interactive) ConfirmSubmit(posting *job.Posting) (bool, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Type %s to send the application for %q (anything else cancels)", submitToken, posting.Title),
	}

	answer, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, fmt.Errorf("submit gate: %w", err)
	}

	return strings.TrimSpace(answer) == submitToken, nil
}

// Auto approves the session and per-job gates without prompting. The final
// submit gate is approved only when unattended submits were explicitly
// allowed in configuration; otherwise every job stops short of submission.
type Auto struct {
	unattendedSubmit bool
	logger           *zap.Logger
}

func NewAuto(unattendedSubmit bool, logger *zap.Logger) *Auto {
	return &Auto{unattendedSubmit: unattendedSubmit, logger: logger}
}

func (a *Auto) ConfirmSession(pending int) (bool, error) {
	a.logger.Info("session gate auto-approved", zap.Int("pending", pending))
	return true, nil
}

func (a *Auto) ConfirmJob(posting *job.Posting) (JobChoice, error) {
	a.logger.Info("job gate auto-approved", zap.String("url", posting.URL))
	return JobApply, nil
}

func (a *Auto) ConfirmSubmit(posting *job.Posting) (bool, error) {
	if !a.unattendedSubmit {
		a.logger.Warn("final submit gate declined: unattended submits are not allowed",
			zap.String("url", posting.URL),
		)
		return false, nil
	}

	a.logger.Info("final submit gate auto-approved", zap.String("url", posting.URL))
	return true, nil
}
