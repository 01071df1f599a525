package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/viper"

	"github.com/fivemoreminix/texdown/texdown"
	"github.com/fivemoreminix/texdown/ui/buffer"
)

// tracer writes to trace with key 'texdown'
func tracer() tracing.Trace {
	return tracing.Select("texdown")
}

// Config is the viewer configuration. Values come from, in rising
// precedence, Defaults, the config file, TEXDOWN_* environment variables
// and command line flags.
type Config struct {
	Rules       string `mapstructure:"rules"`        // Rule table replacing the built-in one
	TabSize     int    `mapstructure:"tab_size"`     // Columns per tab stop
	LineNumbers bool   `mapstructure:"line_numbers"` // Show the line number column
	Watch       bool   `mapstructure:"watch"`        // Reload files when they change
	Trace       string `mapstructure:"trace"`        // File receiving trace output
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		TabSize:     4,
		LineNumbers: true,
		Watch:       true,
	}
}

// loadConfig reads the configuration through v. An empty cfgFile looks for
// config.yaml in ~/.config/texdown, which need not exist.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	defaults := Defaults()
	v.SetDefault("rules", defaults.Rules)
	v.SetDefault("tab_size", defaults.TabSize)
	v.SetDefault("line_numbers", defaults.LineNumbers)
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("trace", defaults.Trace)
	v.SetEnvPrefix("texdown")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "texdown"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.TabSize < 1 {
		return Config{}, fmt.Errorf("tab size must be positive, got %d", cfg.TabSize)
	}
	return cfg, nil
}

// setupTracing keeps trace output off the terminal. With a trace file,
// traces are appended to it instead.
func setupTracing(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		tracer().SetTraceLevel(tracing.LevelError)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	log.SetOutput(f)
	tracer().SetTraceLevel(tracing.LevelDebug)
	return f, nil
}

// loadLanguage builds the texdown language from the rule table at path, or
// from the built-in table if path is empty.
func loadLanguage(path string) (*buffer.Language, error) {
	rules := texdown.Default()
	if path != "" {
		var err error
		if rules, err = texdown.LoadFile(path); err != nil {
			return nil, err
		}
	}
	for _, w := range rules.Warnings {
		tracer().Infof("%v", w)
	}
	return &buffer.Language{
		Name:      "texdown",
		Filetypes: texdown.Filetypes,
		Catalog:   rules.Catalog,
		Styles:    rules.Styles,
		Sniff:     texdown.Sniff,
	}, nil
}
