package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EmptyCancel  = "cancel"  // an empty candidate list cancels the prompt
	EmptyDefault = "default" // an empty candidate list resolves to selector.default
)

// SpinnerStyles lists the frame sets a config may name.
var SpinnerStyles = []string{
	"line", "dot", "minidot", "jump", "pulse", "points", "globe", "moon", "monkey", "meter", "hamburger",
}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Theme    ThemeConfig    `toml:"theme"`
	Selector SelectorConfig `toml:"selector"`
	Spinner  SpinnerConfig  `toml:"spinner"`
	Progress ProgressConfig `toml:"progress"`
	Log      LogConfig      `toml:"log"`
}

// ThemeConfig contains the colors used by prompts and animations.
type ThemeConfig struct {
	Color   bool   `toml:"color"`
	Accent  string `toml:"accent"`
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Warning string `toml:"warning"`
	Info    string `toml:"info"`
	Muted   string `toml:"muted"`
	Match   string `toml:"match"`
}

// SelectorConfig contains fuzzy selector settings.
type SelectorConfig struct {
	Prompt  string `toml:"prompt"`
	Height  int    `toml:"height"`
	Empty   string `toml:"empty"`
	Default string `toml:"default"`
}

// SpinnerConfig contains spinner animation settings.
type SpinnerConfig struct {
	Style    string   `toml:"style"`
	Interval Duration `toml:"interval"`
}

// ProgressConfig contains progress bar settings.
type ProgressConfig struct {
	Width           int     `toml:"width"`
	Complete        string  `toml:"complete"`
	Incomplete      string  `toml:"incomplete"`
	Format          string  `toml:"format"`
	ClearOnComplete bool    `toml:"clear_on_complete"`
	MaxFPS          float64 `toml:"max_fps"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a [time.Duration] written as a string ("80ms") in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes TOML data, fills every key the data leaves out from the defaults, and validates the result.
//
// Unknown keys are rejected so that typos surface at load time.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	config.mergeDefaults(DefaultConfig(), md)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// mergeDefaults copies each field the decoded file did not define from d.
func (c *Config) mergeDefaults(d *Config, md toml.MetaData) {
	fields := []struct {
		key   []string
		apply func()
	}{
		{[]string{"theme", "color"}, func() { c.Theme.Color = d.Theme.Color }},
		{[]string{"theme", "accent"}, func() { c.Theme.Accent = d.Theme.Accent }},
		{[]string{"theme", "success"}, func() { c.Theme.Success = d.Theme.Success }},
		{[]string{"theme", "error"}, func() { c.Theme.Error = d.Theme.Error }},
		{[]string{"theme", "warning"}, func() { c.Theme.Warning = d.Theme.Warning }},
		{[]string{"theme", "info"}, func() { c.Theme.Info = d.Theme.Info }},
		{[]string{"theme", "muted"}, func() { c.Theme.Muted = d.Theme.Muted }},
		{[]string{"theme", "match"}, func() { c.Theme.Match = d.Theme.Match }},
		{[]string{"selector", "prompt"}, func() { c.Selector.Prompt = d.Selector.Prompt }},
		{[]string{"selector", "height"}, func() { c.Selector.Height = d.Selector.Height }},
		{[]string{"selector", "empty"}, func() { c.Selector.Empty = d.Selector.Empty }},
		{[]string{"selector", "default"}, func() { c.Selector.Default = d.Selector.Default }},
		{[]string{"spinner", "style"}, func() { c.Spinner.Style = d.Spinner.Style }},
		{[]string{"spinner", "interval"}, func() { c.Spinner.Interval = d.Spinner.Interval }},
		{[]string{"progress", "width"}, func() { c.Progress.Width = d.Progress.Width }},
		{[]string{"progress", "complete"}, func() { c.Progress.Complete = d.Progress.Complete }},
		{[]string{"progress", "incomplete"}, func() { c.Progress.Incomplete = d.Progress.Incomplete }},
		{[]string{"progress", "format"}, func() { c.Progress.Format = d.Progress.Format }},
		{[]string{"progress", "clear_on_complete"}, func() { c.Progress.ClearOnComplete = d.Progress.ClearOnComplete }},
		{[]string{"progress", "max_fps"}, func() { c.Progress.MaxFPS = d.Progress.MaxFPS }},
		{[]string{"log", "level"}, func() { c.Log.Level = d.Log.Level }},
		{[]string{"log", "file"}, func() { c.Log.File = d.Log.File }},
	}

	for _, f := range fields {
		if !md.IsDefined(f.key...) {
			f.apply()
		}
	}
}

// Validate checks ranges and enumerations. Errors wrap [ErrInvalidConfig].
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Selector.Height < 1 {
		invalid("selector.height must be at least 1, got %d", c.Selector.Height)
	}
	if c.Selector.Empty != EmptyCancel && c.Selector.Empty != EmptyDefault {
		invalid("selector.empty must be %q or %q, got %q", EmptyCancel, EmptyDefault, c.Selector.Empty)
	}
	if !slices.Contains(SpinnerStyles, c.Spinner.Style) {
		invalid("spinner.style %q is not one of %s", c.Spinner.Style, strings.Join(SpinnerStyles, ", "))
	}
	if c.Spinner.Interval.Duration < 10*time.Millisecond {
		invalid("spinner.interval must be at least 10ms, got %s", c.Spinner.Interval)
	}
	if c.Progress.Width < 1 {
		invalid("progress.width must be at least 1, got %d", c.Progress.Width)
	}
	if utf8.RuneCountInString(c.Progress.Complete) != 1 || utf8.RuneCountInString(c.Progress.Incomplete) != 1 {
		invalid("progress.complete and progress.incomplete must be single characters")
	}
	if !strings.Contains(c.Progress.Format, ":bar") {
		invalid("progress.format must contain :bar")
	}
	if c.Progress.MaxFPS < 0 {
		invalid("progress.max_fps must not be negative")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, fs.ErrExist)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeConfig writes config as TOML.
func EncodeConfig(w io.Writer, config *Config) error {
	if err := toml.NewEncoder(w).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// WriteConfig validates config and writes it to path, replacing any existing file.
func WriteConfig(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return encodeAndClose(f, config)
}

// encodeAndClose writes config to wc and closes it, returning both errors.
func encodeAndClose(wc io.WriteCloser, config *Config) error {
	err := EncodeConfig(wc, config)
	if cerr := wc.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close config file: %w", cerr))
	}
	return err
}
