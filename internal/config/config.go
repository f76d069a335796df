// Package config provides configuration types and defaults for linklabel.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"linklabel/internal/log"
	"linklabel/internal/span"
)

// Config holds all configuration options for linklabel.
type Config struct {
	AutoReload bool            `mapstructure:"auto_reload"`
	Detection  DetectionConfig `mapstructure:"detection"`
	Theme      ThemeConfig     `mapstructure:"theme"`
	History    HistoryConfig   `mapstructure:"history"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Demo       DemoConfig      `mapstructure:"demo"`
	Flags      map[string]bool `mapstructure:"flags"`
}

// DetectionConfig controls which span kinds are detected.
type DetectionConfig struct {
	// Automatic gates pattern and data detection. Explicit links are
	// matched regardless.
	Automatic bool `mapstructure:"automatic"`

	// Kinds restricts which span kinds are detected. Empty means all.
	// Valid values: user_handle, hashtag, email, url, phone_number,
	// explicit_link.
	Kinds []string `mapstructure:"kinds"`

	// Patterns overrides the built-in regex for pattern-detected kinds.
	// Keys are kind names, values are Go regular expressions whose
	// first capture group (or whole match) becomes the span.
	Patterns map[string]string `mapstructure:"patterns"`
}

// SpanKinds converts the configured kind names to typed kinds.
func (d DetectionConfig) SpanKinds() ([]span.Kind, error) {
	if len(d.Kinds) == 0 {
		return nil, nil
	}
	out := make([]span.Kind, 0, len(d.Kinds))
	for _, name := range d.Kinds {
		k := span.Kind(name)
		if !k.Valid() {
			return nil, fmt.Errorf("unknown span kind %q", name)
		}
		out = append(out, k)
	}
	return out, nil
}

// SpanPatterns converts the configured pattern overrides to typed keys.
func (d DetectionConfig) SpanPatterns() (map[span.Kind]string, error) {
	if len(d.Patterns) == 0 {
		return nil, nil
	}
	out := make(map[span.Kind]string, len(d.Patterns))
	for name, pattern := range d.Patterns {
		k := span.Kind(name)
		if !k.Valid() {
			return nil, fmt.Errorf("unknown span kind %q in patterns", name)
		}
		out[k] = pattern
	}
	return out, nil
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Underline toggles underlining of span text.
	// Default: true
	Underline *bool `mapstructure:"underline"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     link:
	//       hashtag: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "link.hashtag": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// UnderlineEnabled returns whether span text is underlined (defaults to true).
func (t ThemeConfig) UnderlineEnabled() bool {
	return t.Underline == nil || *t.Underline
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// HistoryConfig controls the tap-history store.
type HistoryConfig struct {
	// Enabled controls whether activated spans are recorded.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Path is the sqlite database file for the history store.
	// Default: ~/.config/linklabel/history.db
	Path string `mapstructure:"path"`
}

// TracingConfig holds trace export configuration for document rebuilds.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/linklabel/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DemoConfig seeds the interactive demo program.
type DemoConfig struct {
	// Text is the initial buffer shown by the demo.
	Text string `mapstructure:"text"`

	// Width is the wrap width. Zero follows the terminal width.
	Width int `mapstructure:"width"`
}

// DefaultHistoryPath returns the default path for the tap-history store.
// Returns ~/.config/linklabel/history.db or empty string if home dir unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "linklabel", "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/linklabel/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "linklabel", "traces", "traces.jsonl")
}

// ValidateDetection checks detection configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateDetection(d DetectionConfig) error {
	if _, err := d.SpanKinds(); err != nil {
		return fmt.Errorf("detection.kinds: %w", err)
	}
	if _, err := d.SpanPatterns(); err != nil {
		return fmt.Errorf("detection.patterns: %w", err)
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", t.Mode)
	}
	return nil
}

// ValidateHistory checks history configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateHistory(h HistoryConfig) error {
	if h.Path != "" && !filepath.IsAbs(h.Path) {
		return fmt.Errorf("history.path must be an absolute path, got %q", h.Path)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateDetection(c.Detection); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := ValidateHistory(c.History); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Detection: DetectionConfig{
			Automatic: true,
		},
		Theme: ThemeConfig{
			Mode: "",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    DefaultHistoryPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Demo: DemoConfig{
			Text: "Reach us at support@example.com, on the forum as @helpdesk,\n" +
				"or see https://example.com/status for updates. Tag posts with\n" +
				"#outage so we can track them. Phone: +1 (555) 010-4477.",
			Width: 0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Linklabel Configuration

# Reload the label when this file changes
auto_reload: true

# Span detection settings
detection:
  # Run pattern and data detectors (explicit links are always matched)
  automatic: true

  # Restrict detection to specific kinds (default: all kinds)
  # kinds:
  #   - user_handle
  #   - hashtag
  #   - email
  #   - url
  #   - phone_number

  # Override the built-in regex for a pattern-detected kind.
  # The first capture group (or the whole match) becomes the span.
  # patterns:
  #   hashtag: '(?:^|\s)(#[[:alnum:]_]+)'

# Theme configuration
theme:
  # Force light or dark mode (default: terminal detection)
  # mode: dark

  # Underline span text (default: true)
  # underline: false

  # Override specific colors:
  # colors:
  #   link.explicit: "#10B981"
  #   link.hashtag: "#54A0FF"
  #   link.highlight: "#F8C471"

# Tap history - record activated spans in a local sqlite database
history:
  enabled: false
  # path: ~/.config/linklabel/history.db

# Trace export for document rebuilds
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/linklabel/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Demo program settings
demo:
  # text: "Try #tags, @handles and https://example.com here."
  # width: 0   # 0 follows the terminal width
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
