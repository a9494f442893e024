// Package config provides configuration loading for heapherd.
// Settings come from heapherd.toml, overridden by HEAPHERD_* environment
// variables; a .env file next to the config is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/hproftools/heapherd/internal/constants"
)

// Config holds all tunable settings for a capture run.
type Config struct {
	// ProgramsDir is where candidate .java sources live.
	ProgramsDir string `toml:"programs_dir"`

	// OutputDir is where dumps, histograms, the ledger, and the run log go.
	OutputDir string `toml:"output_dir"`

	JVM struct {
		// Flags are extra options passed through to java untouched,
		// in addition to the diagnostic defaults.
		Flags []string `toml:"flags"`
	} `toml:"jvm"`

	Timeouts struct {
		CompileSecs   int `toml:"compile_secs"`
		DumpSecs      int `toml:"dump_secs"`
		HistogramSecs int `toml:"histogram_secs"`
		StabilizeSecs int `toml:"stabilize_secs"`
		GraceSecs     int `toml:"grace_secs"`
		KillSecs      int `toml:"kill_secs"`
	} `toml:"timeouts"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		ProgramsDir: "test_programs",
		OutputDir:   "heap_dumps",
	}
	cfg.Timeouts.CompileSecs = int(constants.CompileTimeout / time.Second)
	cfg.Timeouts.DumpSecs = int(constants.DumpTimeout / time.Second)
	cfg.Timeouts.HistogramSecs = int(constants.HistogramTimeout / time.Second)
	cfg.Timeouts.StabilizeSecs = int(constants.StabilizeWait / time.Second)
	cfg.Timeouts.GraceSecs = int(constants.TermGracePeriod / time.Second)
	cfg.Timeouts.KillSecs = int(constants.KillWaitPeriod / time.Second)
	return cfg
}

// Load reads configuration from dir. A missing heapherd.toml is not an
// error; defaults apply. Environment variables override file values.
func Load(dir string) (*Config, error) {
	// Optional .env for local overrides. Missing file is fine.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := Default()

	path := filepath.Join(dir, constants.ConfigFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Timeouts.CompileSecs <= 0 || cfg.Timeouts.DumpSecs <= 0 ||
		cfg.Timeouts.HistogramSecs <= 0 || cfg.Timeouts.StabilizeSecs < 0 ||
		cfg.Timeouts.GraceSecs <= 0 || cfg.Timeouts.KillSecs <= 0 {
		return nil, fmt.Errorf("invalid timeouts in %s: values must be positive", path)
	}

	return cfg, nil
}

// applyEnv overlays HEAPHERD_* environment variables onto the config.
// Timeout variables must parse as integers; unparseable values are ignored
// and the file or default value stands.
func (c *Config) applyEnv() {
	if v := os.Getenv("HEAPHERD_PROGRAMS_DIR"); v != "" {
		c.ProgramsDir = v
	}
	if v := os.Getenv("HEAPHERD_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("HEAPHERD_JVM_FLAGS"); v != "" {
		c.JVM.Flags = strings.Fields(v)
	}

	applyEnvInt("HEAPHERD_COMPILE_SECS", &c.Timeouts.CompileSecs)
	applyEnvInt("HEAPHERD_DUMP_SECS", &c.Timeouts.DumpSecs)
	applyEnvInt("HEAPHERD_HISTOGRAM_SECS", &c.Timeouts.HistogramSecs)
	applyEnvInt("HEAPHERD_STABILIZE_SECS", &c.Timeouts.StabilizeSecs)
	applyEnvInt("HEAPHERD_GRACE_SECS", &c.Timeouts.GraceSecs)
	applyEnvInt("HEAPHERD_KILL_SECS", &c.Timeouts.KillSecs)
}

func applyEnvInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

// CompileTimeout returns the javac invocation ceiling.
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.Timeouts.CompileSecs) * time.Second
}

// DumpTimeout returns the jmap dump invocation ceiling.
func (c *Config) DumpTimeout() time.Duration {
	return time.Duration(c.Timeouts.DumpSecs) * time.Second
}

// HistogramTimeout returns the jmap -histo invocation ceiling.
func (c *Config) HistogramTimeout() time.Duration {
	return time.Duration(c.Timeouts.HistogramSecs) * time.Second
}

// StabilizeWait returns the post-launch warm-up budget.
func (c *Config) StabilizeWait() time.Duration {
	return time.Duration(c.Timeouts.StabilizeSecs) * time.Second
}

// TermGracePeriod returns the wait after SIGTERM before escalating.
func (c *Config) TermGracePeriod() time.Duration {
	return time.Duration(c.Timeouts.GraceSecs) * time.Second
}

// KillWaitPeriod returns the wait after SIGKILL before giving up.
func (c *Config) KillWaitPeriod() time.Duration {
	return time.Duration(c.Timeouts.KillSecs) * time.Second
}
