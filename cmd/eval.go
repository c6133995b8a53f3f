package cmd

import (
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tasnim.dev/instance-scheduler/internal/schedule"
	"tasnim.dev/instance-scheduler/internal/utils"
)

// now is replaced in tests.
var now = time.Now

func NewEvalCmd() *cobra.Command {
	var day string
	var hour int

	cmd := &cobra.Command{
		Use:   "eval <schedule>",
		Short: "Evaluate a schedule tag value without touching any instance",
		Example: `  instance-scheduler eval "work_start=7 work_stop=19"
  instance-scheduler eval "mon_start=8 any_stop=18" --day mon --hour 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := load(cmd)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			rs, err := schedule.Parse(args[0])
			if err != nil {
				return err
			}

			at := now().In(loc)
			m := schedule.At(at, loc)
			if cmd.Flags().Changed("day") {
				if !slices.Contains(schedule.Days, schedule.Scope(day)) {
					return fmt.Errorf("unknown day %q", day)
				}
				m.Day = schedule.Scope(day)
				at = time.Time{}
			}
			if cmd.Flags().Changed("hour") {
				if hour < 0 || hour > 23 {
					return fmt.Errorf("hour %d out of range 0-23", hour)
				}
				m.Hour = hour
				at = time.Time{}
			}

			d := schedule.Evaluate(rs, m)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "schedule\t%s\n", rs)
			fmt.Fprintf(w, "time\t%s\n", utils.TimeOrDash(at, utils.DateTime))
			fmt.Fprintf(w, "day\t%s\n", m.Day)
			fmt.Fprintf(w, "hour\t%d\n", m.Hour)
			fmt.Fprintf(w, "start\t%t\n", d.Start)
			fmt.Fprintf(w, "stop\t%t\n", d.Stop)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day to evaluate: mon..sun (default today)")
	cmd.Flags().IntVar(&hour, "hour", 0, "hour to evaluate: 0-23 (default current hour)")

	return cmd
}
