package cmd

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tasnim.dev/instance-scheduler/internal/scheduler"
)

func NewLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve invocations as an AWS Lambda function",
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

			lambda.Start(handler(runner, log))
			return nil
		},
	}
}

// handler runs one invocation per event. The event payload is ignored. Kind
// failures are reported in the results rather than failing the invocation,
// so the trigger does not retry kinds that already succeeded.
func handler(runner *scheduler.Runner, log zerolog.Logger) func(context.Context, json.RawMessage) ([]scheduler.Result, error) {
	return func(ctx context.Context, _ json.RawMessage) ([]scheduler.Result, error) {
		report := runner.Run(ctx)
		logReport(log, report)
		return report.Results(), nil
	}
}
