package page

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/classify"
)

const (
	defaultNavigateTimeout = 60 * time.Second
	defaultActionTimeout   = 15 * time.Second
)

// Browser drives a real Chrome instance through chromedp. A persistent user
// data directory keeps portal login sessions alive between runs, the same way
// the interactive sessions it replaces would.
type Browser struct {
	logger *zap.Logger

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context

	navigateTimeout time.Duration
	actionTimeout   time.Duration
}

// BrowserOptions configures the chromedp transport.
type BrowserOptions struct {
	Headless        bool
	UserDataDir     string
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}

// NewBrowser launches Chrome and returns a Page backed by it.
func NewBrowser(ctx context.Context, opts BrowserOptions, logger *zap.Logger) (*Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing Chrome binary surfaces here,
	// not on the first job.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	b := &Browser{
		logger:          logger,
		allocCancel:     allocCancel,
		browserCancel:   browserCancel,
		browserCtx:      browserCtx,
		navigateTimeout: opts.NavigateTimeout,
		actionTimeout:   opts.ActionTimeout,
	}
	if b.navigateTimeout <= 0 {
		b.navigateTimeout = defaultNavigateTimeout
	}
	if b.actionTimeout <= 0 {
		b.actionTimeout = defaultActionTimeout
	}

	logger.Debug("browser started", zap.Bool("headless", opts.Headless), zap.String("user_data_dir", opts.UserDataDir))

	return b, nil
}

func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.browserCtx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.logger.Debug("navigating", zap.String("url", url))

	err := b.run(ctx, b.navigateTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (b *Browser) Fields(ctx context.Context) ([]*classify.FieldDescriptor, error) {
	// The snapshot comes back as loose JSON; decode it leniently so a
	// malformed entry does not discard the whole page.
	var raw []map[string]any

	if err := b.run(ctx, b.actionTimeout, chromedp.Evaluate(snapshotJS, &raw)); err != nil {
		return nil, fmt.Errorf("snapshot fields: %w", err)
	}

	var fields []*classify.FieldDescriptor
	cfg := &mapstructure.DecoderConfig{
		Result:           &fields,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("snapshot decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	b.logger.Debug("page snapshot", zap.Int("fields", len(fields)))
	return fields, nil
}

func (b *Browser) Fill(ctx context.Context, selector, value string) error {
	err := b.run(ctx, b.actionTimeout,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (b *Browser) SelectOption(ctx context.Context, selector, value string) error {
	err := b.run(ctx, b.actionTimeout,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("select option on %s: %w", selector, err)
	}
	return nil
}

func (b *Browser) Check(ctx context.Context, selector string) error {
	err := b.run(ctx, b.actionTimeout,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("check %s: %w", selector, err)
	}
	return nil
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	err := b.run(ctx, b.actionTimeout,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (b *Browser) UploadFile(ctx context.Context, selector, path string) error {
	err := b.run(ctx, b.actionTimeout,
		chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("upload to %s: %w", selector, err)
	}
	return nil
}

func (b *Browser) Text(ctx context.Context) (string, error) {
	var text string
	if err := b.run(ctx, b.actionTimeout, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("page text: %w", err)
	}
	return text, nil
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, b.actionTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("page url: %w", err)
	}
	return url, nil
}

func (b *Browser) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := b.run(ctx, b.actionTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	return nil
}

func (b *Browser) Close() error {
	b.browserCancel()
	b.allocCancel()
	b.logger.Debug("browser closed")
	return nil
}
