// Package config loads movectl settings from a YAML file, MOVECTL_*
// environment variables and command-line flags, in viper's usual precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Origin-Byte/nft-protocol/internal/manifest"
	"github.com/Origin-Byte/nft-protocol/internal/readme"
	"github.com/Origin-Byte/nft-protocol/pkg/explorer"
)

// Keys shared with the CLI flag bindings.
const (
	KeyRoot             = "root"
	KeyManifests        = "manifests"
	KeyStrict           = "strict"
	KeyResetTable       = "reset.table"
	KeyResetPlaceholder = "reset.placeholder"
	KeyPublishReadme    = "publish.readme"
	KeyPublishHeading   = "publish.heading"
	KeyPublishLabel     = "publish.label"
	KeyPublishExplorer  = "publish.explorer_url"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyMetricsFile      = "metrics.file"
)

const (
	defaultConfigName = "movectl"
	envPrefix         = "MOVECTL"
	defaultRoot       = "."
	defaultReadme     = "README.md"
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
)

// DefaultManifests lists the protocol packages in publish order.
var DefaultManifests = []string{
	"contracts/pseudorandom/Move.toml",
	"contracts/utils/Move.toml",
	"contracts/permissions/Move.toml",
	"contracts/request/Move.toml",
	"contracts/allowlist/Move.toml",
	"contracts/authlist/Move.toml",
	"contracts/critbit/Move.toml",
	"contracts/originmate/Move.toml",
	"contracts/kiosk/Move.toml",
	"contracts/nft_protocol/Move.toml",
	"contracts/liquidity_layer_v1/Move.toml",
	"contracts/launchpad/Move.toml",
}

// ResetConfig configures the address resetter.
type ResetConfig struct {
	Table       string
	Placeholder string
}

// PublishConfig configures the contracts-list publisher.
type PublishConfig struct {
	Readme      string
	Heading     string
	Label       string
	ExplorerURL string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

// Config is the resolved movectl configuration.
type Config struct {
	Root        string
	Manifests   []string
	Strict      bool
	Reset       ResetConfig
	Publish     PublishConfig
	Log         LogConfig
	MetricsFile string

	// File is the config file that was read, empty when none was found.
	File string
}

// SetDefaults registers a default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, defaultRoot)
	v.SetDefault(KeyManifests, DefaultManifests)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyResetTable, manifest.DefaultAddressTable)
	v.SetDefault(KeyResetPlaceholder, manifest.DefaultPlaceholder)
	v.SetDefault(KeyPublishReadme, defaultReadme)
	v.SetDefault(KeyPublishHeading, readme.DefaultHeading)
	v.SetDefault(KeyPublishLabel, readme.DefaultLabel)
	v.SetDefault(KeyPublishExplorer, explorer.DefaultTemplate)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
	v.SetDefault(KeyMetricsFile, "")
}

// Load reads cfgFile, or movectl.yaml from the working directory or
// ./configs when cfgFile is empty. A missing default config file is not an
// error; a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Root:      v.GetString(KeyRoot),
		Manifests: v.GetStringSlice(KeyManifests),
		Strict:    v.GetBool(KeyStrict),
		Reset: ResetConfig{
			Table:       v.GetString(KeyResetTable),
			Placeholder: v.GetString(KeyResetPlaceholder),
		},
		Publish: PublishConfig{
			Readme:      v.GetString(KeyPublishReadme),
			Heading:     v.GetString(KeyPublishHeading),
			Label:       v.GetString(KeyPublishLabel),
			ExplorerURL: v.GetString(KeyPublishExplorer),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		MetricsFile: v.GetString(KeyMetricsFile),
		File:        v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the pipelines cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Manifests) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one manifest", KeyManifests))
	}
	if strings.TrimSpace(c.Reset.Table) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyResetTable))
	}
	if strings.TrimSpace(c.Reset.Placeholder) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyResetPlaceholder))
	}
	if strings.TrimSpace(c.Publish.Readme) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyPublishReadme))
	}
	if !strings.HasPrefix(strings.TrimSpace(c.Publish.Heading), "##") {
		errs = append(errs, fmt.Errorf("%s %q must be a level-2 Markdown heading", KeyPublishHeading, c.Publish.Heading))
	}
	if _, err := explorer.Parse(c.Publish.ExplorerURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyPublishExplorer, err))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%s %q: expected console or json", KeyLogFormat, c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
