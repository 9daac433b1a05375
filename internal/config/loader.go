package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies DLCPLAN_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known DLCPLAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	// ── Engine ──
	setBool(&cfg.Engine.Parallel, "DLCPLAN_ENGINE_PARALLEL")
	setInt(&cfg.Engine.MaxWorkers, "DLCPLAN_ENGINE_MAX_WORKERS")

	// ── Output ──
	setStr(&cfg.Output.Path, "DLCPLAN_OUTPUT_PATH")
	setBool(&cfg.Output.Pretty, "DLCPLAN_OUTPUT_PRETTY")

	// ── Contract ──
	setStr(&cfg.Contract.Path, "DLCPLAN_CONTRACT_PATH")

	// ── Groups ──
	setUint64(&cfg.Groups.From, "DLCPLAN_GROUPS_FROM")
	setUint64(&cfg.Groups.To, "DLCPLAN_GROUPS_TO")

	// ── Verify ──
	setStr(&cfg.Verify.Fingerprint, "DLCPLAN_VERIFY_FINGERPRINT")

	// ── Top-level ──
	setStr(&cfg.Mode, "DLCPLAN_MODE")
	setStr(&cfg.LogLevel, "DLCPLAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
