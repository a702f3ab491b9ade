package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/vnmarket/internal/align"
	"github.com/opsxjacky/vnmarket/internal/data"
)

// NewDailyRootCommand 独立的 daily 命令: daily SOURCE DEST START
func NewDailyRootCommand() *cobra.Command {
	o := &options{}
	cmd := newDailyCommand(o)
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return o.setup(cmd.ErrOrStderr())
	}
	o.bindFlags(cmd)
	return cmd
}

func newDailyCommand(o *options) *cobra.Command {
	var benchmark string
	cmd := &cobra.Command{
		Use:   "daily SOURCE DEST START",
		Short: "Align a price file onto the benchmark index calendar",
		Long: `Align SOURCE (date, open, high, low, close, volume) onto the trading
calendar of the benchmark index from START (YYYY-MM-DD) onwards. Gaps are
forward-filled then back-filled; rows that still miss values are dropped.
Nothing is written when SOURCE has no rows on or after START.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, dest := args[0], args[1]
			start, err := time.Parse(data.DateLayout, args[2])
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			if benchmark == "" {
				benchmark = o.cfg.GetBenchmarkFile()
			}

			aligner := align.NewDailyAligner(benchmark)
			written, err := aligner.Run(source, dest, start)
			if err != nil {
				return err
			}
			if !written {
				o.logger.Info().Str("source", source).Str("start", args[2]).Msg("no rows in range, nothing written")
				return nil
			}
			o.logger.Info().Str("source", source).Str("dest", dest).Str("benchmark", aligner.Benchmark()).Msg("aligned")
			return nil
		},
	}
	cmd.Flags().StringVar(&benchmark, "benchmark", "", "benchmark index price file (default from config)")
	return cmd
}
