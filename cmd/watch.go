package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultCron = "0 * * * *"

func NewWatchCmd() *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the scheduler on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(cmd)
			if err != nil {
				return err
			}
			runner, err := newRunner(cfg, log)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := cron.New(
				cron.WithLocation(loc),
				cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
			)
			if _, err := c.AddFunc(spec, func() {
				logReport(log, runner.Run(ctx))
			}); err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", spec, err)
			}

			log.Info().Str("cron", spec).Str("timezone", loc.String()).Msg("watching")
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			log.Info().Msg("stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "cron", defaultCron, "cron expression: minute hour day-of-month month day-of-week")

	return cmd
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
