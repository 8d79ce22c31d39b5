package cmd

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/apply"
	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/gate"
	"github.com/seeker-agent/seeker/internal/job"
	"github.com/seeker-agent/seeker/internal/ledger"
	"github.com/seeker-agent/seeker/internal/safety"
	"github.com/seeker-agent/seeker/internal/sink"
)

// scriptedPage serves canned field snapshots in order, clamping on the last.
type scriptedPage struct {
	snapshots [][]*classify.FieldDescriptor
	snapIdx   int
	text      string
	url       string
	navErr    error
}

func (p *scriptedPage) Navigate(ctx context.Context, url string) error { return p.navErr }

func (p *scriptedPage) Fields(ctx context.Context) ([]*classify.FieldDescriptor, error) {
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

func (p *scriptedPage) Fill(ctx context.Context, selector, value string) error         { return nil }
func (p *scriptedPage) SelectOption(ctx context.Context, selector, value string) error { return nil }
func (p *scriptedPage) Check(ctx context.Context, selector string) error               { return nil }
func (p *scriptedPage) Click(ctx context.Context, selector string) error               { return nil }
func (p *scriptedPage) UploadFile(ctx context.Context, selector, path string) error    { return nil }
func (p *scriptedPage) Text(ctx context.Context) (string, error)                       { return p.text, nil }
func (p *scriptedPage) URL(ctx context.Context) (string, error)                        { return p.url, nil }
func (p *scriptedPage) Screenshot(ctx context.Context, path string) error              { return nil }
func (p *scriptedPage) Close() error                                                   { return nil }

// memSink captures every entry for assertions.
type memSink struct {
	entries []sink.Entry
}

func (m *memSink) Name() string { return "mem" }

func (m *memSink) Append(_ context.Context, e sink.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func applyFlowPage() *scriptedPage {
	return &scriptedPage{
		snapshots: [][]*classify.FieldDescriptor{
			{
				{Selector: "#apply", Tag: "button", Text: "Apply now", Visible: true, Enabled: true},
			},
			{
				{Selector: "#email", Tag: "input", Type: "email", Name: "email", Visible: true, Enabled: true},
				{Selector: "#submit", Tag: "button", Text: "Submit application", Visible: true, Enabled: true},
			},
		},
	}
}

func sessionFixture(page *scriptedPage, gates gate.Confirmer) (*apply.Machine, *ledger.Memory, *safety.Limiter, *safety.Pacer, *memSink) {
	nop := zap.NewNop()
	machine := apply.NewMachine(
		page,
		classify.New(classify.DefaultRules()),
		gates,
		safety.NewPacer(safety.PacerConfig{}, nop),
		nil,
		apply.Artifacts{},
		nop,
	)
	return machine,
		ledger.Open(ledger.NewMemStore(), nop),
		safety.NewLimiter(10, 10),
		safety.NewPacer(safety.PacerConfig{}, nop),
		&memSink{}
}

func TestSessionGateDeclinedJobStaysRetryable(t *testing.T) {
	nop := zap.NewNop()
	page := applyFlowPage()

	// Auto gates without unattended submits: every job stops at the final
	// gate. None of them may end up in the ledger.
	machine, memory, limiter, pacer, sk := sessionFixture(page, gate.NewAuto(false, nop))

	posting := &job.Posting{Company: "Acme", Title: "Go Developer", URL: "https://example.com/jobs/1"}
	profile := &job.Profile{Name: "Alex Doe", Email: "alex@example.com"}

	session(context.Background(), machine, []*job.Posting{posting}, profile, memory, limiter, pacer, []sink.Sink{sk}, gate.NewAuto(false, nop), nop)

	if memory.IsApplied(posting.URL) {
		t.Fatal("gate-declined job must not be recorded in the ledger")
	}
	if got := limiter.Stats().SessionApplied; got != 0 {
		t.Errorf("limiter counted %d applications, want 0", got)
	}
	if len(sk.entries) != 1 || sk.entries[0].Status != string(ledger.StatusSkipped) {
		t.Errorf("sink entries = %+v, want one skipped row", sk.entries)
	}
}

func TestSessionFailedJobStaysRetryable(t *testing.T) {
	nop := zap.NewNop()
	page := applyFlowPage()
	page.navErr = context.DeadlineExceeded

	machine, memory, limiter, pacer, sk := sessionFixture(page, gate.NewAuto(true, nop))

	posting := &job.Posting{Company: "Acme", Title: "Go Developer", URL: "https://example.com/jobs/2"}
	profile := &job.Profile{Name: "Alex Doe", Email: "alex@example.com"}

	session(context.Background(), machine, []*job.Posting{posting}, profile, memory, limiter, pacer, []sink.Sink{sk}, gate.NewAuto(true, nop), nop)

	if memory.IsApplied(posting.URL) {
		t.Fatal("failed job must not be recorded in the ledger")
	}
	if len(sk.entries) != 1 || sk.entries[0].Status != string(ledger.StatusFailed) {
		t.Errorf("sink entries = %+v, want one failed row", sk.entries)
	}
}

func TestSessionSubmittedJobIsLedgered(t *testing.T) {
	nop := zap.NewNop()
	page := applyFlowPage()
	page.text = "Application submitted. Thank you for applying!"
	page.url = "https://example.com/jobs/3/done"

	machine, memory, limiter, pacer, sk := sessionFixture(page, gate.NewAuto(true, nop))

	posting := &job.Posting{Company: "Acme", Title: "Go Developer", URL: "https://example.com/jobs/3"}
	profile := &job.Profile{Name: "Alex Doe", Email: "alex@example.com"}

	session(context.Background(), machine, []*job.Posting{posting}, profile, memory, limiter, pacer, []sink.Sink{sk}, gate.NewAuto(true, nop), nop)

	if !memory.IsApplied(posting.URL) {
		t.Fatal("submitted job must be recorded in the ledger")
	}
	if got := limiter.Stats().SessionApplied; got != 1 {
		t.Errorf("limiter counted %d applications, want 1", got)
	}
	if len(sk.entries) != 1 || sk.entries[0].Status != string(ledger.StatusApplied) {
		t.Errorf("sink entries = %+v, want one applied row", sk.entries)
	}
}
