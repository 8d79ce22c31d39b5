package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "seeker"
)

type Config struct {
	Profile    string            `mapstructure:"profile"`
	Jobs       string            `mapstructure:"jobs"`
	Evaluation *EvaluationConfig `mapstructure:"evaluation"`
	Safety     *SafetyConfig     `mapstructure:"safety"`
	Browser    *BrowserConfig    `mapstructure:"browser"`
	Ledger     *LedgerConfig     `mapstructure:"ledger"`
	Artifacts  *ArtifactsConfig  `mapstructure:"artifacts"`
	Sinks      *SinksConfig      `mapstructure:"sinks"`
	Gates      *GatesConfig      `mapstructure:"gates"`
	AI         *AIConfig         `mapstructure:"ai"`
}

type EvaluationConfig struct {
	TargetTitle   string  `mapstructure:"target-title"`
	MinTitleMatch int     `mapstructure:"min-title-match"`
	MinSkillMatch int     `mapstructure:"min-skill-match"`
	MaxExtraYears float64 `mapstructure:"max-extra-years"`
}

type SafetyConfig struct {
	MaxPerSession int           `mapstructure:"max-per-session"`
	MaxPerDay     int           `mapstructure:"max-per-day"`
	DelayMin      time.Duration `mapstructure:"delay-min"`
	DelayMax      time.Duration `mapstructure:"delay-max"`
	PauseMin      time.Duration `mapstructure:"pause-min"`
	PauseMax      time.Duration `mapstructure:"pause-max"`
	BreakEvery    int           `mapstructure:"break-every"`
	CooldownMin   time.Duration `mapstructure:"cooldown-min"`
	CooldownMax   time.Duration `mapstructure:"cooldown-max"`
}

type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"`
	UserDataDir     string        `mapstructure:"user-data-dir"`
	NavigateTimeout time.Duration `mapstructure:"navigate-timeout"`
	ActionTimeout   time.Duration `mapstructure:"action-timeout"`
}

type LedgerConfig struct {
	File string `mapstructure:"file"`
}

type ArtifactsConfig struct {
	Resume      string `mapstructure:"resume"`
	CoverLetter string `mapstructure:"cover-letter"`
	Screenshots string `mapstructure:"screenshots"`
}

type SinksConfig struct {
	CSV    string        `mapstructure:"csv"`
	Sheets *SheetsConfig `mapstructure:"sheets"`
}

type SheetsConfig struct {
	CredentialsFile string `mapstructure:"credentials-file"`
	SpreadsheetID   string `mapstructure:"spreadsheet-id"`
}

type GatesConfig struct {
	Auto             bool `mapstructure:"auto"`
	UnattendedSubmit bool `mapstructure:"unattended-submit"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "seeker is a cli for evaluating job postings and applying to the approved ones",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is seeker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only the commands that touch the pipeline need a config file.
	if runCmd.CalledAs() == "" && clearCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
