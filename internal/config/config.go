package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/bfbs-cli/internal/analysis"
	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
)

// MaxSkip bounds the number of leading lines that may be skipped per file.
const MaxSkip = 2048

// Global configuration structure.
type Global struct {
	Precision   uint   `mapstructure:"precision" yaml:"precision"`
	PrintDigits int    `mapstructure:"print_digits" yaml:"print_digits"`
	CommentChar string `mapstructure:"comment_char" yaml:"comment_char"`
	Skip        int    `mapstructure:"skip" yaml:"skip"`
	Header      bool   `mapstructure:"header" yaml:"header"`
	Scientific  bool   `mapstructure:"scientific" yaml:"scientific"`
	Verbose     bool   `mapstructure:"verbose" yaml:"verbose"`
	// Delimiter is a name accepted by parser.ParseDelimiter; empty picks by extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// Format is a name accepted by analysis.ParseFormat.
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration used when no file or
// environment overrides are available.
func Default() *Global {
	return &Global{
		Precision:   numeric.DefaultPrecision,
		PrintDigits: analysis.DefaultDigits,
		CommentChar: "#",
		Format:      string(analysis.FormatText),
	}
}

func configPath(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bfbs", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bfbs/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := configPath(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied by
// the caller on top of the result.
func Load(cfgFile string) (*Global, error) {
	v, err := newViper(cfgFile, true)
	// A missing default config file is fine; an explicit one must exist.
	if err != nil && !(errors.Is(err, errConfigMissing) && cfgFile == "") {
		return nil, err
	}
	return decode(v)
}

// LoadFile loads only the config file over the defaults, ignoring BFBS_*
// environment overrides. A missing file yields the defaults. It is the base
// for edits that are written back with Save.
func LoadFile(cfgFile string) (*Global, error) {
	v, err := newViper(cfgFile, false)
	if err != nil {
		if errors.Is(err, errConfigMissing) {
			return Default(), nil
		}
		return nil, err
	}
	return decode(v)
}

var errConfigMissing = errors.New("config file not found")

func newViper(cfgFile string, withEnv bool) (*viper.Viper, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix("BFBS")
		v.AutomaticEnv()
	}

	v.SetDefault("precision", numeric.DefaultPrecision)
	v.SetDefault("print_digits", analysis.DefaultDigits)
	v.SetDefault("comment_char", "#")
	v.SetDefault("skip", 0)
	v.SetDefault("header", false)
	v.SetDefault("scientific", false)
	v.SetDefault("verbose", false)
	v.SetDefault("delimiter", "")
	v.SetDefault("format", string(analysis.FormatText))

	path, err := configPath(cfgFile)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, fmt.Errorf("read config: %w: %s", errConfigMissing, path)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Normalize clamps Skip and PrintDigits into range and validates Precision.
func (c *Global) Normalize() error {
	if c.Precision < numeric.MinPrecision || c.Precision > numeric.MaxPrecision {
		return fmt.Errorf("precision must be between %d and %d bits, got %d",
			numeric.MinPrecision, numeric.MaxPrecision, c.Precision)
	}
	c.Skip = clamp(c.Skip, 0, MaxSkip)
	c.PrintDigits = clamp(c.PrintDigits, 0, analysis.MaxDigits)
	if utf8.RuneCountInString(c.CommentChar) > 1 {
		return fmt.Errorf("comment_char must be a single character, got %q", c.CommentChar)
	}
	return nil
}

// CommentRune returns the comment marker, or 0 when comments are disabled.
func (c *Global) CommentRune() rune {
	if c.CommentChar == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.CommentChar)
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
