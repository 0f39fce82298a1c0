// Package config provides configuration loading and discovery for veneer.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VENEER_* prefix)
//  3. Config file (closest .veneer.toml or veneer.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern: starting from the
// target file's directory, walk up the filesystem until a config file is
// found. The closest config wins (no merging).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".veneer.toml", "veneer.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "VENEER_"

// Config represents the complete veneer configuration.
type Config struct {
	// Detection configures the analysis pass.
	Detection DetectionConfig `json:"detection" koanf:"detection"`

	// Remediation configures the fix lifecycle.
	Remediation RemediationConfig `json:"remediation" koanf:"remediation"`

	// Gateway configures how prompts leave the process.
	Gateway GatewayConfig `json:"gateway" koanf:"gateway"`

	// Backup configures where pre-write snapshots are stored.
	Backup BackupConfig `json:"backup" koanf:"backup"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// Discovery configures which files are analyzed.
	Discovery DiscoveryConfig `json:"discovery" koanf:"discovery"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// ProviderConfig identifies one model provider. API keys are named by the
// environment variable that carries them, never stored in the file.
//
// Example TOML configuration:
//
//	[detection.provider]
//	kind = "openai"
//	model = "gpt-4o"
//	api-key-env = "OPENAI_API_KEY"
type ProviderConfig struct {
	// Kind selects the wire protocol: openai, deepseek or anthropic.
	Kind string `json:"kind,omitempty" koanf:"kind"`

	// Model is the provider-side model identifier.
	Model string `json:"model,omitempty" koanf:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"base-url,omitempty" koanf:"base-url"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api-key-env,omitempty" koanf:"api-key-env"`
}

// APIKey resolves the key from the configured environment variable.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// DetectionConfig configures the analysis pass.
//
// Example TOML configuration:
//
//	[detection]
//	static = true
//	min-accuracy = 0.3
type DetectionConfig struct {
	// Provider is the model used for detection.
	Provider ProviderConfig `json:"provider" koanf:"provider"`

	// Static toggles the deterministic checks.
	Static bool `json:"static,omitempty" koanf:"static"`
}

// RemediationConfig configures the fix lifecycle.
//
// Example TOML configuration:
//
//	[remediation]
//	quality-threshold = 0.7
type RemediationConfig struct {
	// Provider is the model used for fixes. Falls back to the detection
	// provider when empty.
	Provider ProviderConfig `json:"provider" koanf:"provider"`

	// QualityThreshold gates auto-apply.
	QualityThreshold float64 `json:"quality-threshold,omitempty" koanf:"quality-threshold"`
}

// GatewayConfig configures outbound model traffic.
type GatewayConfig struct {
	// Timeout is the per-request timeout (e.g. "2m"). Parsed with
	// time.ParseDuration at runtime.
	Timeout string `json:"timeout,omitempty" koanf:"timeout"`
}

// BackupConfig configures pre-write snapshots.
type BackupConfig struct {
	// Dir is where snapshots are stored.
	Dir string `json:"dir,omitempty" koanf:"dir"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format: text, json or sarif.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `json:"show-source,omitempty" koanf:"show-source"`
}

// DiscoveryConfig configures which files are analyzed.
type DiscoveryConfig struct {
	// Include lists glob patterns for files to analyze.
	Include []string `json:"include,omitempty" koanf:"include"`

	// Exclude lists glob patterns for files to skip.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Provider: ProviderConfig{
				Kind:      "openai",
				Model:     "gpt-4o",
				APIKeyEnv: "OPENAI_API_KEY",
			},
			Static: true,
		},
		Remediation: RemediationConfig{
			QualityThreshold: 0.7,
		},
		Gateway: GatewayConfig{
			Timeout: "2m",
		},
		Backup: BackupConfig{
			Dir: ".veneer/backups",
		},
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
		},
		Discovery: DiscoveryConfig{
			Include: []string{
				"**/*.html", "**/*.htm", "**/*.css", "**/*.scss",
				"**/*.jsx", "**/*.tsx", "**/*.xml", "**/*.svg",
			},
			Exclude: []string{
				"**/node_modules/**", "**/dist/**", "**/build/**",
				"**/.git/**", "**/vendor/**",
			},
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

// loadWithConfigPath is an internal helper that loads config with an optional config file path.
func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (VENEER_* prefix)
	// VENEER_REMEDIATION_QUALITY_THRESHOLD -> remediation.quality-threshold
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Output.Format {
	case "text", "json", "sarif":
	default:
		return fmt.Errorf("invalid output format %q (want text, json or sarif)", c.Output.Format)
	}
	if c.Remediation.QualityThreshold < 0 || c.Remediation.QualityThreshold > 1 {
		return fmt.Errorf("remediation.quality-threshold %v out of range [0,1]", c.Remediation.QualityThreshold)
	}
	return nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
// Add new entries here when adding hyphenated config keys.
var knownHyphenatedKeys = map[string]string{
	"api.key.env":       "api-key-env",
	"base.url":          "base-url",
	"quality.threshold": "quality-threshold",
	"show.source":       "show-source",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"detection":   {},
	"remediation": {},
	"gateway":     {},
	"backup":      {},
	"output":      {},
	"discovery":   {},
	// Compatibility aliases for the most common settings.
	"format": {},
	"path":   {},
}

// envKeyTransform converts environment variable names to config keys.
// VENEER_FORMAT -> format
// VENEER_REMEDIATION_QUALITY_THRESHOLD -> remediation.quality-threshold
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
