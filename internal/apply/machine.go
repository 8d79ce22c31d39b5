package apply

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/ai"
	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/gate"
	"github.com/seeker-agent/seeker/internal/job"
	"github.com/seeker-agent/seeker/internal/page"
	"github.com/seeker-agent/seeker/internal/safety"
)

// State names the phase an application attempt ended in.
type State string

const (
	StateNotStarted      State = "not_started"
	StateOpened          State = "opened"
	StateApplyClicked    State = "apply_clicked"
	StateSubmitted       State = "submitted"
	StateSuccessDetected State = "success_detected"
	StateUnconfirmed     State = "unconfirmed"
	StateFailed          State = "failed"
	StateAborted         State = "aborted"
)

// maxFormPages bounds the multi-page form walk. A form still offering a
// continue control past this many pages is treated as done filling and
// handed to the submit stage.
const maxFormPages = 5

// Result is the terminal record of one attempt. Submitted reports whether
// the submit control was clicked; Success whether confirmation evidence was
// found afterwards. A submitted-but-unconfirmed attempt carries reason
// "unclear" and must be verified manually, never retried automatically.
type Result struct {
	State      State
	Submitted  bool
	Success    bool
	Confidence Confidence
	Reason     string
}

// Artifacts are the local files an application may attach.
type Artifacts struct {
	ResumePath      string
	CoverLetterPath string
	ScreenshotDir   string
}

// Machine drives one job posting from navigation through submission. It
// owns no session state; limits and pacing between jobs belong to the
// caller.
type Machine struct {
	page       page.Page
	classifier *classify.Classifier
	gates      gate.Confirmer
	pacer      *safety.Pacer
	letters    ai.Writer
	artifacts  Artifacts
	logger     *zap.Logger
	maxPages   int
}

func NewMachine(p page.Page, classifier *classify.Classifier, gates gate.Confirmer, pacer *safety.Pacer, letters ai.Writer, artifacts Artifacts, logger *zap.Logger) *Machine {
	return &Machine{
		page:       p,
		classifier: classifier,
		gates:      gates,
		pacer:      pacer,
		letters:    letters,
		artifacts:  artifacts,
		logger:     logger,
		maxPages:   maxFormPages,
	}
}

func failed(reason string) Result {
	return Result{State: StateFailed, Confidence: ConfidenceUnknown, Reason: reason}
}

// Run executes the full attempt for one posting. Every outcome, including
// transport failures, comes back as a Result; the error from Run is reserved
// for context cancellation so the caller can tell a dead job from a dead
// session.
func (m *Machine) Run(ctx context.Context, profile *job.Profile, posting *job.Posting) (Result, error) {
	log := m.logger.With(zap.String("company", posting.Company), zap.String("title", posting.Title))

	log.Info("opening posting", zap.String("url", posting.URL))
	if err := m.page.Navigate(ctx, posting.URL); err != nil {
		if ctx.Err() != nil {
			return failed("session cancelled"), ctx.Err()
		}
		return failed(fmt.Sprintf("open timeout: %v", err)), nil
	}

	fields, err := m.page.Fields(ctx)
	if err != nil {
		return failed(fmt.Sprintf("page scan failed: %v", err)), nil
	}

	control, pattern := findControl(fields, applyPatterns)
	if control == nil {
		return failed("apply control not found"), nil
	}
	log.Info("starting application", zap.String("via", pattern))
	if err := m.page.Click(ctx, control.Selector); err != nil {
		return failed(fmt.Sprintf("apply click failed: %v", err)), nil
	}
	if err := m.pacer.BetweenPages(ctx); err != nil {
		return failed("session cancelled"), err
	}
	m.logApplyState(ctx, posting.URL, log)

	// Walk the form pages, filling each before advancing.
	for pageNum := 1; ; pageNum++ {
		fields, err = m.page.Fields(ctx)
		if err != nil {
			return failed(fmt.Sprintf("form scan failed: %v", err)), nil
		}
		classified := m.classifier.Classify(fields)

		filled := m.fillPersonal(ctx, profile, classified)
		resume := m.attachResume(ctx, classified)
		letter := m.attachCoverLetter(ctx, profile, posting, classified)
		answered := m.answerQuestions(ctx, classified)

		log.Info("form page processed",
			zap.Int("page", pageNum),
			zap.Int("filled", filled),
			zap.Int("answered", answered),
			zap.String("resume", resume),
			zap.String("cover_letter", letter),
		)

		next := findContinue(classified)
		if next == nil {
			break
		}
		if pageNum >= m.maxPages {
			log.Warn("form page limit reached", zap.Int("pages", pageNum))
			break
		}
		if err := m.page.Click(ctx, next.Selector); err != nil {
			return failed(fmt.Sprintf("continue click failed: %v", err)), nil
		}
		if err := m.pacer.BetweenPages(ctx); err != nil {
			return failed("session cancelled"), err
		}
	}

	ok, err := m.gates.ConfirmSubmit(posting)
	if err != nil {
		return failed(fmt.Sprintf("submit gate failed: %v", err)), nil
	}
	if !ok {
		log.Info("submission declined at final gate")
		return Result{State: StateAborted, Confidence: ConfidenceUnknown, Reason: "submission declined"}, nil
	}

	fields, err = m.page.Fields(ctx)
	if err != nil {
		return failed(fmt.Sprintf("form scan failed: %v", err)), nil
	}
	control, pattern = findControl(fields, submitPatterns)
	if control == nil {
		return failed("submit control not found"), nil
	}

	// One attempt only. A click error past this point is still Failed, but
	// the posting must not be retried without checking the portal first.
	log.Info("submitting application", zap.String("via", pattern))
	if err := m.page.Click(ctx, control.Selector); err != nil {
		return failed(fmt.Sprintf("submit click failed: %v", err)), nil
	}
	if err := m.pacer.BetweenPages(ctx); err != nil {
		return Result{State: StateSubmitted, Submitted: true, Confidence: ConfidenceUnknown, Reason: "unclear"}, err
	}

	result := m.confirm(ctx, log)
	if result.Success {
		m.captureConfirmation(ctx, posting, log)
	}
	return result, nil
}

// confirm grades the post-submit page.
func (m *Machine) confirm(ctx context.Context, log *zap.Logger) Result {
	text, err := m.page.Text(ctx)
	if err != nil {
		log.Warn("confirmation text unavailable", zap.Error(err))
	}
	url, err := m.page.URL(ctx)
	if err != nil {
		log.Warn("confirmation url unavailable", zap.Error(err))
	}

	confidence, evidence := DetectSuccess(text, url)
	switch confidence {
	case ConfidenceUnknown:
		log.Warn("submission not confirmed, verify manually")
		return Result{State: StateUnconfirmed, Submitted: true, Confidence: confidence, Reason: "unclear"}
	default:
		log.Info("application confirmed",
			zap.String("confidence", string(confidence)),
			zap.String("evidence", evidence),
		)
		return Result{State: StateSuccessDetected, Submitted: true, Success: true, Confidence: confidence, Reason: evidence}
	}
}

// logApplyState records whether the apply click opened a modal, navigated
// away, or exposed an inline form. Diagnostic only.
func (m *Machine) logApplyState(ctx context.Context, postingURL string, log *zap.Logger) {
	current, err := m.page.URL(ctx)
	if err != nil {
		return
	}
	state := "inline form"
	if current != postingURL {
		state = "navigation"
	}
	log.Debug("apply transition", zap.String("state", state), zap.String("url", current))
}

func (m *Machine) captureConfirmation(ctx context.Context, posting *job.Posting, log *zap.Logger) {
	if m.artifacts.ScreenshotDir == "" {
		return
	}
	name := fmt.Sprintf("confirmation_%s_%s.png", slug(posting.Company), time.Now().Format("20060102-150405"))
	path := filepath.Join(m.artifacts.ScreenshotDir, name)
	if err := m.page.Screenshot(ctx, path); err != nil {
		log.Warn("confirmation screenshot failed", zap.Error(err))
		return
	}
	log.Info("confirmation saved", zap.String("path", path))
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "posting"
	}
	return out
}
