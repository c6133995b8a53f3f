package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate clears every variable Load reads and points HOME at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, names := range envNames {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.EC2Schedule)
	assert.True(t, cfg.RDSSchedule)
	assert.Equal(t, "schedule", cfg.Tag)
	assert.False(t, cfg.ForceCreate)
	assert.Equal(t, "any_start=5", cfg.DefaultSchedule)
	assert.Equal(t, []string{}, cfg.Exclude)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.DryRun)
}

func TestLoad_LegacyEnv(t *testing.T) {
	isolate(t)
	t.Setenv("EC2_SCHEDULE", "False")
	t.Setenv("TAG", "office-hours")
	t.Setenv("SCHEDULE_TAG_FORCE", "True")
	t.Setenv("DEFAULT", "work_start=7 work_stop=19")
	t.Setenv("EXCLUDE", "i-1, ,i-2,")
	t.Setenv("TIME", "local")
	t.Setenv("AWS_DEFAULT_REGION", "us-east-1")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.False(t, cfg.EC2Schedule)
	assert.True(t, cfg.RDSSchedule)
	assert.Equal(t, "office-hours", cfg.Tag)
	assert.True(t, cfg.ForceCreate)
	assert.Equal(t, "work_start=7 work_stop=19", cfg.DefaultSchedule)
	assert.Equal(t, []string{"i-1", "i-2"}, cfg.Exclude)
	assert.Equal(t, "local", cfg.Timezone)
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	isolate(t)
	t.Setenv("TAG", "legacy")
	t.Setenv("SCHEDULER_TAG", "current")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("SCHEDULER_REGION", "ap-northeast-1")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "current", cfg.Tag)
	assert.Equal(t, "ap-northeast-1", cfg.Region)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeFile(t, "tag: hours\nexclude:\n  - db-legacy\ntimezone: Europe/Berlin\nautoscaling_lookup: true\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "hours", cfg.Tag)
	assert.Equal(t, []string{"db-legacy"}, cfg.Exclude)
	assert.True(t, cfg.AutoScalingLookup)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("SCHEDULER_TAG", "from-env")
	path := writeFile(t, "tag: from-file\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Tag)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SCHEDULER_REGION", "us-west-2")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("region", "", "")
	fs.Bool("dry-run", false, "")
	require.NoError(t, fs.Parse([]string{"--region", "eu-north-1", "--dry-run"}))

	v := viper.New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "eu-north-1", cfg.Region)
	assert.True(t, cfg.DryRun)
}

func TestLoad_DefaultPath(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "instance-scheduler")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("rds_schedule: false\n"), 0644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.False(t, cfg.RDSSchedule)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	isolate(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoad_RejectsInvalidDefaultSchedule(t *testing.T) {
	isolate(t)
	t.Setenv("DEFAULT", "any_start")

	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "default schedule")
}

func TestValidate(t *testing.T) {
	valid := Config{Tag: "schedule", DefaultSchedule: "any_start=5", Timezone: "utc", LogLevel: "info", LogFormat: "json"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty tag", func(c *Config) { c.Tag = "" }, "tag name"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLocation(t *testing.T) {
	for _, tz := range []string{"", "utc", "GMT"} {
		loc, err := (&Config{Timezone: tz}).Location()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc, tz)
	}

	loc, err := (&Config{Timezone: "Local"}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestSchedulerOptions(t *testing.T) {
	cfg := Config{Tag: "hours", DefaultSchedule: "any_start=6", ForceCreate: true, Exclude: []string{"i-1"}, DryRun: true}

	opts := cfg.SchedulerOptions()
	assert.Equal(t, "hours", opts.TagName)
	assert.Equal(t, "any_start=6", opts.DefaultValue)
	assert.True(t, opts.ForceCreate)
	assert.Equal(t, []string{"i-1"}, opts.Exclude)
	assert.True(t, opts.DryRun)
}

func TestYAML(t *testing.T) {
	cfg := Config{Tag: "schedule", Exclude: []string{"i-1"}, Region: "eu-west-1"}

	data, err := cfg.YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "schedule", decoded["tag"])
	assert.Equal(t, "eu-west-1", decoded["region"])
	assert.NotContains(t, decoded, "profile")
}
