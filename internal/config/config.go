// Package config defines the configuration of the dlcplan command and
// provides validation helpers.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by DLCPLAN_* environment variables and
// command-line flags.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Output   OutputConfig   `toml:"output"`
	Contract ContractConfig `toml:"contract"`
	Groups   GroupsConfig   `toml:"groups"`
	Verify   VerifyConfig   `toml:"verify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// EngineConfig controls how payout pieces and ranges are processed. The
// resulting plan does not depend on these values.
type EngineConfig struct {
	Parallel   bool `toml:"parallel"`
	MaxWorkers int  `toml:"max_workers"`
}

// OutputConfig selects where results are written. Path "-" is stdout.
type OutputConfig struct {
	Path   string `toml:"path"`
	Pretty bool   `toml:"pretty"`
}

// ContractConfig locates the contract descriptor.
type ContractConfig struct {
	Path string `toml:"path"`
}

// GroupsConfig is the outcome range compressed in groups mode.
type GroupsConfig struct {
	From uint64 `toml:"from"`
	To   uint64 `toml:"to"`
}

// VerifyConfig holds the counterparty's plan fingerprint for verify mode.
type VerifyConfig struct {
	Fingerprint string `toml:"fingerprint"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			Parallel:   true,
			MaxWorkers: 0,
		},
		Output: OutputConfig{
			Path:   "-",
			Pretty: false,
		},
		Contract: ContractConfig{
			Path: "contract.toml",
		},
		Mode:     "plan",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"plan":   true,
	"ranges": true,
	"groups": true,
	"verify": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: plan, ranges, groups, verify)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Engine.MaxWorkers < 0 {
		errs = append(errs, "engine: max_workers must be >= 0")
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, `output: path must not be empty (use "-" for stdout)`)
	}
	if strings.TrimSpace(c.Contract.Path) == "" {
		errs = append(errs, "contract: path must not be empty")
	}

	if mode == "groups" && c.Groups.From > c.Groups.To {
		errs = append(errs, fmt.Sprintf("groups: from %d must not exceed to %d", c.Groups.From, c.Groups.To))
	}
	if mode == "verify" {
		fp := strings.TrimSpace(c.Verify.Fingerprint)
		if raw, err := hex.DecodeString(fp); err != nil || len(raw) != 32 {
			errs = append(errs, "verify: fingerprint must be 64 hex characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
