package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linklabel/internal/app"
	"linklabel/internal/config"
	"linklabel/internal/log"
	"linklabel/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "linklabel",
	Short:   "A terminal playground for tappable text spans",
	Long:    `An interactive demo of link, handle, hashtag, email, URL and phone-number detection in terminal text, with tap handling and theming.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/linklabel/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to linklabel-debug.log")
	rootCmd.Flags().String("text", "",
		"text to display instead of the configured demo text")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable automatic reload when the config file changes")

	_ = v.BindPFlag("demo::text", rootCmd.Flags().Lookup("text"))
}

// newViper builds the viper instance. Keys are delimited with "::" so
// dotted color tokens like "link.url" survive as single map keys.
func newViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter("::"))
}

var v = newViper()

func initConfig() {
	defaults := config.Defaults()
	v.SetDefault("auto_reload", defaults.AutoReload)
	v.SetDefault("detection::automatic", defaults.Detection.Automatic)
	v.SetDefault("demo::text", defaults.Demo.Text)
	v.SetDefault("demo::width", defaults.Demo.Width)
	v.SetDefault("history::enabled", defaults.History.Enabled)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .linklabel/config.yaml (current directory)
		// 2. ~/.config/linklabel/config.yaml (user config)
		if _, err := os.Stat(".linklabel/config.yaml"); err == nil {
			v.SetConfigFile(".linklabel/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "linklabel"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found anywhere - create a commented default.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, _ := os.UserHomeDir()
			defaultPath := filepath.Join(home, ".config", "linklabel", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				v.SetConfigFile(defaultPath)
				_ = v.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = v.Unmarshal(&cfg)
}

// loadConfig re-reads the config file. Used by the app's hot-reload.
func loadConfig() (config.Config, error) {
	fresh := newViper()
	fresh.SetConfigFile(v.ConfigFileUsed())
	if err := fresh.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	var c config.Config
	if err := fresh.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if debug || os.Getenv("LINKLABEL_DEBUG") != "" {
		cleanup, logErr := log.InitWithTeaLog("linklabel-debug.log", "linklabel")
		if logErr != nil {
			return fmt.Errorf("opening debug log: %w", logErr)
		}
		defer cleanup()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	tracer, err := newTracerProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	zone.NewGlobal()
	defer zone.Close()

	configFilePath := v.ConfigFileUsed()
	model := app.New(cfg, configFilePath, loadConfig)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if shutdownErr := tracer.Shutdown(cmd.Context()); shutdownErr != nil && err == nil {
		err = shutdownErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newTracerProvider maps the file config onto the tracing setup.
func newTracerProvider(cfg config.Config) (*tracing.Provider, error) {
	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Tracing.Enabled
	if cfg.Tracing.Exporter != "" {
		tc.Exporter = cfg.Tracing.Exporter
	}
	tc.FilePath = cfg.Tracing.FilePath
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	if cfg.Tracing.SampleRate > 0 {
		tc.SampleRate = cfg.Tracing.SampleRate
	}
	return tracing.NewProvider(tc)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
