package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/seeker-agent/seeker/internal/ai"
	"github.com/seeker-agent/seeker/internal/ai/gemini"
	"github.com/seeker-agent/seeker/internal/apply"
	"github.com/seeker-agent/seeker/internal/classify"
	"github.com/seeker-agent/seeker/internal/evaluate"
	"github.com/seeker-agent/seeker/internal/gate"
	"github.com/seeker-agent/seeker/internal/job"
	"github.com/seeker-agent/seeker/internal/ledger"
	"github.com/seeker-agent/seeker/internal/logger"
	"github.com/seeker-agent/seeker/internal/page"
	"github.com/seeker-agent/seeker/internal/safety"
	"github.com/seeker-agent/seeker/internal/secrets"
	"github.com/seeker-agent/seeker/internal/sink"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the queued postings and apply to the approved ones",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "skip the session and per-job confirmation prompts")
	runCmd.Flags().Bool("dry-run", false, "evaluate and log decisions without opening a browser")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting seeker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	config.normalize()

	if config.Profile == "" {
		logger.Fatal("candidate profile is required under the profile key")
	}

	profile, err := job.LoadProfile(config.Profile)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.Error(err))
	}

	queue, err := job.LoadQueue(config.Jobs)
	if err != nil {
		logger.Fatal("loading job queue", zap.Error(err))
	}
	if queue.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs in the queue"))
		return
	}
	logger.Info("loaded job queue", zap.Int("count", queue.Len()))

	memory := ledger.Open(ledger.NewFileStore(config.Ledger.File), logger)

	pending := decide(queue, profile, memory, config, logger)
	if len(pending) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after evaluation"))
		return
	}

	if mustFlag(cmd, "dry-run") {
		logger.Info("dry run complete", zap.Int("would_apply", len(pending)))
		return
	}

	gates := pickGates(cmd, config, logger)

	ok, err := gates.ConfirmSession(len(pending))
	if err != nil {
		logger.Fatal("session gate", zap.Error(err))
	}
	if !ok {
		logger.Info("exiting", zap.String("reason", "session declined"))
		return
	}

	letters, err := newLetterWriter(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("cover letter generation disabled", zap.Error(err))
	}

	sinks := buildSinks(ctx, config.Sinks, logger)

	browser, err := page.NewBrowser(ctx, page.BrowserOptions{
		Headless:        config.Browser.Headless,
		UserDataDir:     config.Browser.UserDataDir,
		NavigateTimeout: config.Browser.NavigateTimeout,
		ActionTimeout:   config.Browser.ActionTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("launching the browser", zap.Error(err))
	}
	defer browser.Close()

	limiter := safety.NewLimiter(config.Safety.MaxPerSession, config.Safety.MaxPerDay)
	pacer := safety.NewPacer(safety.PacerConfig{
		DelayMin:    config.Safety.DelayMin,
		DelayMax:    config.Safety.DelayMax,
		PauseMin:    config.Safety.PauseMin,
		PauseMax:    config.Safety.PauseMax,
		BreakEvery:  config.Safety.BreakEvery,
		CooldownMin: config.Safety.CooldownMin,
		CooldownMax: config.Safety.CooldownMax,
	}, logger)

	machine := apply.NewMachine(
		browser,
		classify.New(classify.DefaultRules()),
		gates,
		pacer,
		letters,
		apply.Artifacts{
			ResumePath:      config.Artifacts.Resume,
			CoverLetterPath: config.Artifacts.CoverLetter,
			ScreenshotDir:   config.Artifacts.Screenshots,
		},
		logger,
	)

	session(ctx, machine, pending, profile, memory, limiter, pacer, sinks, gates, logger)

	stats := limiter.Stats()
	logger.Info("session finished",
		zap.Int("applied", stats.SessionApplied),
		zap.Int("session_limit", stats.SessionLimit),
		zap.Int("total_recorded", memory.Len()),
	)
}

// decide runs the evaluation over the queue and returns the postings worth
// applying to, skipping anything the ledger already holds.
func decide(queue *job.Queue, profile *job.Profile, memory *ledger.Memory, config *Config, logger *zap.Logger) []*job.Posting {
	thresholds := evaluate.Thresholds{
		TargetTitle:   config.Evaluation.TargetTitle,
		MinTitleMatch: config.Evaluation.MinTitleMatch,
		MinSkillMatch: config.Evaluation.MinSkillMatch,
		MaxExtraYears: config.Evaluation.MaxExtraYears,
	}

	var pending []*job.Posting
	for _, posting := range queue.Items {
		log := logger.With(zap.String("company", posting.Company), zap.String("title", posting.Title))

		if memory.IsApplied(posting.URL) {
			log.Info("skipping, already in application memory")
			continue
		}

		decision := evaluate.Evaluate(profile, posting, thresholds)
		if decision.Verdict != evaluate.VerdictApply {
			log.Info("skipping", zap.String("reason", strings.Join(decision.Reasons, "; ")))
			continue
		}

		log.Info("worth applying", zap.String("decision", decision.Summary()))
		pending = append(pending, posting)
	}
	return pending
}

// session walks the approved postings through the state machine, honoring
// limits, pacing and the per-job gate. A cancelled context ends the session
// between jobs; the job in flight finishes its own cleanup.
func session(
	ctx context.Context,
	machine *apply.Machine,
	pending []*job.Posting,
	profile *job.Profile,
	memory *ledger.Memory,
	limiter *safety.Limiter,
	pacer *safety.Pacer,
	sinks []sink.Sink,
	gates gate.Confirmer,
	logger *zap.Logger,
) {
	for i, posting := range pending {
		if ctx.Err() != nil {
			logger.Info("session interrupted")
			return
		}

		if ok, reason := limiter.CanApply(); !ok {
			logger.Info("stopping the session", zap.String("reason", reason))
			return
		}

		choice, err := gates.ConfirmJob(posting)
		if err != nil {
			logger.Fatal("job gate", zap.Error(err))
		}
		switch choice {
		case gate.JobSkip:
			record(ctx, memory, sinks, posting, ledger.StatusSkipped, logger)
			continue
		case gate.JobStop:
			logger.Info("stopping the session", zap.String("reason", "operator request"))
			return
		}

		result, err := machine.Run(ctx, profile, posting)
		logger.Info("job finished",
			zap.String("state", string(result.State)),
			zap.Bool("submitted", result.Submitted),
			zap.Bool("success", result.Success),
			zap.String("reason", result.Reason),
		)

		switch {
		case result.Submitted:
			record(ctx, memory, sinks, posting, ledger.StatusApplied, logger)
			limiter.RecordApplication()
		case result.State == apply.StateAborted:
			record(ctx, memory, sinks, posting, ledger.StatusSkipped, logger)
		default:
			record(ctx, memory, sinks, posting, ledger.StatusFailed, logger)
		}

		if err != nil {
			logger.Info("session interrupted")
			return
		}

		if pacer.ShouldCooldown(limiter.Stats().SessionApplied) {
			if err := pacer.Cooldown(ctx); err != nil {
				return
			}
		}

		if i < len(pending)-1 {
			if err := pacer.BetweenJobs(ctx); err != nil {
				return
			}
		}
	}
}

// record appends the outcome to every configured sink, and to the ledger
// only for applied jobs: a skipped or failed posting must stay retryable in
// later runs. The IsApplied guard keeps the ledger append idempotent per URL.
func record(ctx context.Context, memory *ledger.Memory, sinks []sink.Sink, posting *job.Posting, status ledger.Status, logger *zap.Logger) {
	if status == ledger.StatusApplied && !memory.IsApplied(posting.URL) {
		if _, err := memory.MarkApplied(posting.URL, posting, status); err != nil {
			logger.Warn("persisting application memory", zap.Error(err))
		}
	}

	sink.AppendAll(ctx, sinks, sink.Entry{
		Timestamp: time.Now(),
		Company:   posting.Company,
		Title:     posting.Title,
		Location:  posting.Location,
		Portal:    posting.Portal,
		Status:    string(status),
		URL:       posting.URL,
	}, logger)
}

func pickGates(cmd *cobra.Command, config *Config, logger *zap.Logger) gate.Confirmer {
	if mustFlag(cmd, "auto-approve") || config.Gates.Auto {
		return gate.NewAuto(config.Gates.UnattendedSubmit, logger)
	}
	return gate.NewInteractive()
}

func buildSinks(ctx context.Context, config *SinksConfig, logger *zap.Logger) []sink.Sink {
	var sinks []sink.Sink

	if config.CSV != "" {
		sinks = append(sinks, sink.NewCSV(config.CSV))
	}

	if config.Sheets != nil && config.Sheets.SpreadsheetID != "" {
		sheets, err := sink.NewSheets(ctx, config.Sheets.CredentialsFile, config.Sheets.SpreadsheetID)
		if err != nil {
			logger.Warn("skipping the google sheets sink", zap.Error(err))
		} else {
			sinks = append(sinks, sheets)
		}
	}

	return sinks
}

func newLetterWriter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Writer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	writerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewWriter(generator, writerLogger, cfg.Gemini.MaxLogLength), nil
}

func mustFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

// normalize fills the optional config sections and applies the built-in
// defaults so the rest of the pipeline never checks for nil sections.
func (c *Config) normalize() {
	if c.Evaluation == nil {
		c.Evaluation = &EvaluationConfig{}
	}
	if c.Evaluation.MinTitleMatch == 0 {
		c.Evaluation.MinTitleMatch = 40
	}
	if c.Evaluation.MinSkillMatch == 0 {
		c.Evaluation.MinSkillMatch = 2
	}
	if c.Evaluation.MaxExtraYears == 0 {
		c.Evaluation.MaxExtraYears = 2
	}

	if c.Safety == nil {
		c.Safety = &SafetyConfig{}
	}
	if c.Safety.MaxPerSession == 0 {
		c.Safety.MaxPerSession = 10
	}
	if c.Safety.MaxPerDay == 0 {
		c.Safety.MaxPerDay = 20
	}
	if c.Safety.DelayMin == 0 {
		c.Safety.DelayMin = 30 * time.Second
	}
	if c.Safety.DelayMax == 0 {
		c.Safety.DelayMax = 90 * time.Second
	}
	if c.Safety.PauseMin == 0 {
		c.Safety.PauseMin = 2 * time.Second
	}
	if c.Safety.PauseMax == 0 {
		c.Safety.PauseMax = 5 * time.Second
	}
	if c.Safety.BreakEvery == 0 {
		c.Safety.BreakEvery = 5
	}
	if c.Safety.CooldownMin == 0 {
		c.Safety.CooldownMin = 5 * time.Minute
	}
	if c.Safety.CooldownMax == 0 {
		c.Safety.CooldownMax = 10 * time.Minute
	}

	if c.Browser == nil {
		c.Browser = &BrowserConfig{Headless: true}
	}

	if c.Ledger == nil {
		c.Ledger = &LedgerConfig{}
	}
	if c.Ledger.File == "" {
		c.Ledger.File = app + "-ledger.json"
	}

	if c.Artifacts == nil {
		c.Artifacts = &ArtifactsConfig{}
	}
	if c.Sinks == nil {
		c.Sinks = &SinksConfig{}
	}
	if c.Gates == nil {
		c.Gates = &GatesConfig{}
	}
}
