package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tasnim.dev/instance-scheduler/internal/constants"
	"tasnim.dev/instance-scheduler/internal/logging"
	"tasnim.dev/instance-scheduler/internal/schedule"
	"tasnim.dev/instance-scheduler/internal/scheduler"
	"tasnim.dev/instance-scheduler/internal/utils"
)

// Config is the resolved job configuration. It is built once per process
// and passed down explicitly.
type Config struct {
	EC2Schedule       bool     `mapstructure:"ec2_schedule" yaml:"ec2_schedule"`
	RDSSchedule       bool     `mapstructure:"rds_schedule" yaml:"rds_schedule"`
	Tag               string   `mapstructure:"tag" yaml:"tag"`
	ForceCreate       bool     `mapstructure:"force_create" yaml:"force_create"`
	DefaultSchedule   string   `mapstructure:"default_schedule" yaml:"default_schedule"`
	Exclude           []string `mapstructure:"exclude" yaml:"exclude"`
	Timezone          string   `mapstructure:"timezone" yaml:"timezone"`
	Region            string   `mapstructure:"region" yaml:"region"`
	Profile           string   `mapstructure:"profile" yaml:"profile,omitempty"`
	AutoScalingLookup bool     `mapstructure:"autoscaling_lookup" yaml:"autoscaling_lookup"`
	DryRun            bool     `mapstructure:"dry_run" yaml:"dry_run"`
	LogLevel          string   `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string   `mapstructure:"log_format" yaml:"log_format"`
}

// envNames lists the environment variables for each key, in lookup order.
// The unprefixed names are kept for existing Lambda deployments.
var envNames = map[string][]string{
	"ec2_schedule":       {"SCHEDULER_EC2_SCHEDULE", "EC2_SCHEDULE"},
	"rds_schedule":       {"SCHEDULER_RDS_SCHEDULE", "RDS_SCHEDULE"},
	"tag":                {"SCHEDULER_TAG", "TAG"},
	"force_create":       {"SCHEDULER_TAG_FORCE", "SCHEDULE_TAG_FORCE"},
	"default_schedule":   {"SCHEDULER_DEFAULT", "DEFAULT"},
	"exclude":            {"SCHEDULER_EXCLUDE", "EXCLUDE"},
	"timezone":           {"SCHEDULER_TIME", "TIME"},
	"region":             {"SCHEDULER_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"},
	"profile":            {"SCHEDULER_PROFILE", "AWS_PROFILE"},
	"autoscaling_lookup": {"SCHEDULER_AUTOSCALING_LOOKUP"},
	"dry_run":            {"SCHEDULER_DRY_RUN"},
	"log_level":          {"SCHEDULER_LOG_LEVEL"},
	"log_format":         {"SCHEDULER_LOG_FORMAT"},
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"region":     "region",
	"profile":    "profile",
	"tag":        "tag",
	"timezone":   "timezone",
	"dry-run":    "dry_run",
	"log-level":  "log_level",
	"log-format": "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ec2_schedule", true)
	v.SetDefault("rds_schedule", true)
	v.SetDefault("tag", constants.DefaultTagName)
	v.SetDefault("force_create", false)
	v.SetDefault("default_schedule", constants.DefaultScheduleValue)
	v.SetDefault("exclude", []string{})
	v.SetDefault("timezone", "utc")
	v.SetDefault("region", constants.DefaultRegion)
	v.SetDefault("profile", "")
	v.SetDefault("autoscaling_lookup", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", logging.FormatJSON)
}

// BindFlags binds the flags in fs that have a config key. Flags absent from fs are ignored.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// DefaultPath returns ~/.config/instance-scheduler/config.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "instance-scheduler", "config.yaml")
}

// Load resolves the configuration. Precedence is flag, environment, config
// file, default. An empty path reads DefaultPath if it exists; an explicit
// path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	for key, names := range envNames {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Exclude = utils.CleanList(cfg.Exclude)
	cfg.Tag = strings.TrimSpace(cfg.Tag)
	cfg.DefaultSchedule = strings.TrimSpace(cfg.DefaultSchedule)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Tag == "" {
		return errors.New("tag name must not be empty")
	}
	if _, err := schedule.Parse(c.DefaultSchedule); err != nil {
		return fmt.Errorf("default schedule: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Location resolves the timezone setting: utc (or gmt), local, or an IANA zone name.
func (c *Config) Location() (*time.Location, error) {
	switch strings.ToLower(c.Timezone) {
	case "", "utc", "gmt":
		return time.UTC, nil
	case "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}

// SchedulerOptions returns the pipeline options shared by every kind.
func (c *Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		TagName:      c.Tag,
		DefaultValue: c.DefaultSchedule,
		ForceCreate:  c.ForceCreate,
		Exclude:      c.Exclude,
		DryRun:       c.DryRun,
	}
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
