package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	awsclient "tasnim.dev/instance-scheduler/internal/aws"
	"tasnim.dev/instance-scheduler/internal/config"
	"tasnim.dev/instance-scheduler/internal/logging"
	"tasnim.dev/instance-scheduler/internal/scheduler"
)

// lambdaRuntimeEnv is set by the Lambda runtime in every function process.
const lambdaRuntimeEnv = "AWS_LAMBDA_RUNTIME_API"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "instance-scheduler",
		Short:         "Start and stop EC2 and RDS instances from schedule tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/instance-scheduler/config.yaml)")
	flags.StringP("profile", "p", "", "AWS profile to use")
	flags.StringP("region", "r", "", "AWS region to use")
	flags.String("tag", "", "schedule tag name")
	flags.String("timezone", "", "evaluation timezone: utc, local or an IANA zone name")
	flags.Bool("dry-run", false, "evaluate without tagging, starting or stopping anything")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-format", "", "json or console")

	root.AddCommand(NewRunCmd())
	root.AddCommand(NewLambdaCmd())
	root.AddCommand(NewWatchCmd())
	root.AddCommand(NewEvalCmd())
	root.AddCommand(NewConfigCmd())

	return root
}

// DefaultArgs selects the lambda command when the binary is started by the
// Lambda runtime without arguments.
func DefaultArgs(args []string) []string {
	if len(args) == 0 && os.Getenv(lambdaRuntimeEnv) != "" {
		return []string{"lambda"}
	}
	return args
}

func load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, zerolog.Nop(), err
	}
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(v, path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	return cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat), nil
}

func newRunner(cfg *config.Config, log zerolog.Logger) (*scheduler.Runner, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	svc := &awsclient.ServiceClient{
		Profile:           cfg.Profile,
		Region:            cfg.Region,
		AutoScalingLookup: cfg.AutoScalingLookup,
		Log:               log,
	}
	targets := svc.Targets(cfg.EC2Schedule, cfg.RDSSchedule)
	if len(targets) == 0 {
		log.Warn().Msg("ec2 and rds scheduling are both disabled")
	}

	log.Debug().
		Str("tag", cfg.Tag).
		Str("timezone", loc.String()).
		Bool("force_create", cfg.ForceCreate).
		Strs("exclude", cfg.Exclude).
		Bool("dry_run", cfg.DryRun).
		Msg("configured")

	return scheduler.NewRunner(cfg.SchedulerOptions(), loc, log, targets...), nil
}

func logReport(log zerolog.Logger, report *scheduler.Report) {
	for _, k := range report.Kinds {
		if k.Err == nil {
			continue
		}
		ev := log.Error().Err(k.Err).Str("kind", string(k.Kind))
		if code := awsclient.ErrorCode(k.Err); code != "" {
			ev = ev.Str("code", code)
		}
		ev.Msg("kind failed")
	}
}
