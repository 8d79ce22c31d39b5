package apply

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/gate"
	"github.com/seeker-agent/seeker/internal/job"
	"github.com/seeker-agent/seeker/internal/safety"
)

// fakePage serves scripted field snapshots in order, clamping on the last
// one, and records every interaction.
type fakePage struct {
	snapshots [][]*classify.FieldDescriptor
	snapIdx   int
	text      string
	url       string

	navErr    error
	fieldsErr error
	clickErr  map[string]error

	clicks  []string
	fills   map[string]string
	checks  []string
	selects map[string]string
	uploads map[string]string
	shots   []string
}

func newFakePage(snapshots ...[]*classify.FieldDescriptor) *fakePage {
	return &fakePage{
		snapshots: snapshots,
		fills:     map[string]string{},
		selects:   map[string]string{},
		uploads:   map[string]string{},
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return p.navErr }

func (p *fakePage) Fields(ctx context.Context) ([]*classify.FieldDescriptor, error) {
	if p.fieldsErr != nil {
		return nil, p.fieldsErr
	}
	if len(p.snapshots) == 0 {
		return nil, nil
	}
	idx := p.snapIdx
	if idx >= len(p.snapshots) {
		idx = len(p.snapshots) - 1
	}
	p.snapIdx++
	return p.snapshots[idx], nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string) error {
	p.fills[selector] = value
	return nil
}

func (p *fakePage) SelectOption(ctx context.Context, selector, value string) error {
	p.selects[selector] = value
	return nil
}

func (p *fakePage) Check(ctx context.Context, selector string) error {
	p.checks = append(p.checks, selector)
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if err := p.clickErr[selector]; err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) UploadFile(ctx context.Context, selector, path string) error {
	p.uploads[selector] = path
	return nil
}

func (p *fakePage) Text(ctx context.Context) (string, error) { return p.text, nil }

func (p *fakePage) URL(ctx context.Context) (string, error) { return p.url, nil }

func (p *fakePage) Screenshot(ctx context.Context, path string) error {
	p.shots = append(p.shots, path)
	return nil
}

func (p *fakePage) Close() error { return nil }

func (p *fakePage) countClicks(selector string) int {
	n := 0
	for _, c := range p.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

func button(selector, text string) *classify.FieldDescriptor {
	return &classify.FieldDescriptor{Selector: selector, Tag: "button", Text: text, Visible: true, Enabled: true}
}

func input(selector, typ, name string) *classify.FieldDescriptor {
	return &classify.FieldDescriptor{Selector: selector, Tag: "input", Type: typ, Name: name, Visible: true, Enabled: true}
}

func postingPage() []*classify.FieldDescriptor {
	return []*classify.FieldDescriptor{button("#apply", "Apply now")}
}

func contactForm() []*classify.FieldDescriptor {
	return []*classify.FieldDescriptor{
		input("#email", "email", "email"),
		input("#phone", "tel", "phone"),
		input("#first", "text", "first_name"),
		input("#last", "text", "last_name"),
		button("#submit", "Submit application"),
	}
}

func testProfile() *job.Profile {
	return &job.Profile{
		Name:     "Alex Doe",
		Email:    "alex@example.com",
		Phone:    "555-0100",
		Location: "Remote",
	}
}

func testPosting() *job.Posting {
	return &job.Posting{
		Company: "Acme",
		Title:   "Backend Engineer",
		URL:     "https://jobs.example.com/123",
	}
}

func testMachine(p *fakePage, gates gate.Confirmer) *Machine {
	logger := zap.NewNop()
	if gates == nil {
		gates = gate.NewAuto(true, logger)
	}
	return NewMachine(p, classify.New(classify.DefaultRules()), gates, safety.NewPacer(safety.PacerConfig{}, logger), nil, Artifacts{}, logger)
}

func TestRunSubmitsAndConfirms(t *testing.T) {
	fake := newFakePage(postingPage(), contactForm())
	fake.text = "Application submitted. Thank you for applying!"
	fake.url = "https://jobs.example.com/123/done"

	result, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Submitted || !result.Success {
		t.Errorf("result = %+v, want submitted and successful", result)
	}
	if result.State != StateSuccessDetected || result.Confidence != ConfidenceHigh {
		t.Errorf("state = %s confidence = %s, want success_detected/high", result.State, result.Confidence)
	}
	if fake.countClicks("#submit") != 1 {
		t.Errorf("submit clicked %d times, want exactly once", fake.countClicks("#submit"))
	}
	if fake.fills["#email"] != "alex@example.com" {
		t.Errorf("email fill = %q", fake.fills["#email"])
	}
	if fake.fills["#first"] != "Alex" || fake.fills["#last"] != "Doe" {
		t.Errorf("name fills = %q / %q", fake.fills["#first"], fake.fills["#last"])
	}
}

func TestRunUnconfirmedSubmission(t *testing.T) {
	fake := newFakePage(postingPage(), contactForm())
	fake.text = "Please wait while we process your request."
	fake.url = "https://jobs.example.com/123/form"

	result, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Submitted {
		t.Error("expected submitted = true")
	}
	if result.Success {
		t.Error("expected success = false without confirmation evidence")
	}
	if result.Reason != "unclear" {
		t.Errorf("reason = %q, want %q", result.Reason, "unclear")
	}
	if result.State != StateUnconfirmed {
		t.Errorf("state = %s, want %s", result.State, StateUnconfirmed)
	}
}

func TestRunPageLoopBound(t *testing.T) {
	endless := []*classify.FieldDescriptor{
		input("#email", "email", "email"),
		button("#next", "Continue"),
	}
	fake := newFakePage(postingPage(), endless)

	result, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := fake.countClicks("#next"); got != maxFormPages-1 {
		t.Errorf("continue clicked %d times, want %d", got, maxFormPages-1)
	}
	// Nothing submit-like on the page once the loop gives up.
	if result.State != StateFailed || result.Submitted {
		t.Errorf("result = %+v, want failed without submission", result)
	}
}

func TestRunGateDeclinesSubmission(t *testing.T) {
	fake := newFakePage(postingPage(), contactForm())

	result, err := testMachine(fake, gate.NewAuto(false, zap.NewNop())).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.State != StateAborted || result.Submitted {
		t.Errorf("result = %+v, want aborted without submission", result)
	}
	if fake.countClicks("#submit") != 0 {
		t.Error("submit must not be clicked after a declined gate")
	}
}

func TestRunApplyControlMissing(t *testing.T) {
	fake := newFakePage([]*classify.FieldDescriptor{
		button("#share", "Share this job"),
	})

	result, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.State != StateFailed || result.Reason != "apply control not found" {
		t.Errorf("result = %+v, want failed apply control not found", result)
	}
}

func TestRunNavigationFailure(t *testing.T) {
	fake := newFakePage(postingPage())
	fake.navErr = context.DeadlineExceeded

	result, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for a per-job failure", err)
	}

	if result.State != StateFailed || result.Submitted {
		t.Errorf("result = %+v, want failed without submission", result)
	}
	if !strings.HasPrefix(result.Reason, "open timeout") {
		t.Errorf("reason = %q, want an open timeout reason", result.Reason)
	}
}

func TestFillSkipsPrefilledFields(t *testing.T) {
	prefilled := input("#email", "email", "email")
	prefilled.Value = "already@example.com"
	fake := newFakePage(postingPage(), []*classify.FieldDescriptor{
		prefilled,
		button("#submit", "Submit application"),
	})
	fake.text = "application submitted"

	if _, err := testMachine(fake, nil).Run(context.Background(), testProfile(), testPosting()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, ok := fake.fills["#email"]; ok {
		t.Error("prefilled email must not be overwritten")
	}
}
