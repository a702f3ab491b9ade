package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/vnmarket/internal/align"
	"github.com/opsxjacky/vnmarket/internal/benchmark"
	"github.com/opsxjacky/vnmarket/internal/data"
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// rangeFlags 日期区间参数
type rangeFlags struct {
	start string
	end   string
}

func (r *rangeFlags) bind(cmd *cobra.Command, defaultStart string) {
	cmd.Flags().StringVar(&r.start, "start", defaultStart, "start date YYYY-MM-DD (empty for no lower bound)")
	cmd.Flags().StringVar(&r.end, "end", "", "end date YYYY-MM-DD (empty for no upper bound)")
}

// from 没有指定 --start 时使用配置中的开始日期
func (r *rangeFlags) from(cmd *cobra.Command, fallback string) string {
	if cmd.Flags().Changed("start") {
		return r.start
	}
	return fallback
}

// indexLayout 输出索引的日期格式
func indexLayout(freq types.Frequency) string {
	if freq == types.Minute {
		return data.MinuteLayout
	}
	return data.DateLayout
}

func newPriceCommand(o *options) *cobra.Command {
	var rf rangeFlags
	var frequency string
	var fields []string
	cmd := &cobra.Command{
		Use:   "price SYMBOL",
		Short: "Print one symbol's OHLCV series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := types.ParseFrequency(frequency)
			if err != nil {
				return err
			}
			r, err := parseRange(rf.from(cmd, o.cfg.GetStartDate()), rf.end, freq)
			if err != nil {
				return err
			}
			selected := make([]types.Field, 0, len(fields))
			for _, name := range fields {
				f, err := types.ParseField(name)
				if err != nil {
					return err
				}
				selected = append(selected, f)
			}

			loader, err := o.loader()
			if err != nil {
				return err
			}
			found, err := loader.LoadPrice(args[0], r, freq, selected...)
			if err != nil {
				return err
			}
			price, ok := found.Get()
			if !ok {
				o.logger.Warn().Str("symbol", args[0]).Msg("no price data")
				return nil
			}
			o.logger.Debug().Str("symbol", price.Symbol).Str("exchange", price.Exchange).Int("rows", price.Len()).Msg("loaded price")
			return data.WriteFrame(cmd.OutOrStdout(), price, "date", indexLayout(freq))
		},
	}
	rf.bind(cmd, "2018-01-01")
	cmd.Flags().StringVar(&frequency, "frequency", string(types.Daily), "daily or minute")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "subset of open,high,low,close,volume (default all)")
	return cmd
}

func newPricesCommand(o *options) *cobra.Command {
	var rf rangeFlags
	var frequency, field string
	cmd := &cobra.Command{
		Use:   "prices SYMBOL...",
		Short: "Print one price field of several symbols joined on date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := types.ParseFrequency(frequency)
			if err != nil {
				return err
			}
			f, err := types.ParseField(field)
			if err != nil {
				return err
			}
			r, err := parseRange(rf.from(cmd, o.cfg.GetStartDate()), rf.end, freq)
			if err != nil {
				return err
			}
			loader, err := o.loader()
			if err != nil {
				return err
			}
			found, err := loader.LoadPrices(args, r, freq, f)
			if err != nil {
				return err
			}
			prices, ok := found.Get()
			if !ok {
				o.logger.Warn().Strs("symbols", args).Msg("no price data for any symbol")
				return nil
			}
			return data.WriteFrame(cmd.OutOrStdout(), prices, "date", indexLayout(freq))
		},
	}
	rf.bind(cmd, "2018-01-01")
	cmd.Flags().StringVar(&frequency, "frequency", string(types.Daily), "daily or minute")
	cmd.Flags().StringVar(&field, "field", string(types.Close), "price field")
	return cmd
}

func newEventsCommand(o *options) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "events SYMBOL",
		Short: "Print corporate events by disclosure date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRange(rf.start, rf.end, types.Daily)
			if err != nil {
				return err
			}
			loader, err := o.loader()
			if err != nil {
				return err
			}
			found, err := loader.LoadEvents(args[0], r)
			if err != nil {
				return err
			}
			events, ok := found.Get()
			if !ok {
				o.logger.Warn().Str("symbol", args[0]).Msg("no events")
				return nil
			}
			return data.WriteFrame(cmd.OutOrStdout(), events, "disclosuredDate", data.DateLayout)
		},
	}
	rf.bind(cmd, "")
	return cmd
}

func newFundamentalsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fundamentals SYMBOL STATEMENT",
		Short: "Print a financial statement (BalanceSheetQuarter, CashFlow, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := o.loader()
			if err != nil {
				return err
			}
			found, err := loader.Statement(args[0], args[1])
			if err != nil {
				return err
			}
			statement, ok := found.Get()
			if !ok {
				o.logger.Warn().Str("symbol", args[0]).Str("statement", args[1]).Msg("no statement")
				return nil
			}
			return data.WriteQuarterFrame(cmd.OutOrStdout(), statement)
		},
	}
}

func newAlignCommand(o *options) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "align SYMBOL STATEMENT|Events",
		Short: "Attach a statement or the events table onto the daily price calendar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, source := args[0], args[1]
			r, err := parseRange(rf.from(cmd, o.cfg.GetStartDate()), rf.end, types.Daily)
			if err != nil {
				return err
			}
			loader, err := o.loader()
			if err != nil {
				return err
			}
			found, err := loader.LoadPrice(symbol, r, types.Daily)
			if err != nil {
				return err
			}
			price, ok := found.Get()
			if !ok {
				o.logger.Warn().Str("symbol", symbol).Msg("no price data")
				return nil
			}

			var observations types.Observations
			if source == string(types.KindEvents) {
				events, err := loader.LoadEvents(symbol, types.Range{})
				if err != nil {
					return err
				}
				if observations, ok = events.Get(); !ok {
					o.logger.Warn().Str("symbol", symbol).Msg("no events")
					return nil
				}
			} else {
				statement, err := loader.Statement(symbol, source)
				if err != nil {
					return err
				}
				if observations, ok = statement.Get(); !ok {
					o.logger.Warn().Str("symbol", symbol).Str("statement", source).Msg("no statement")
					return nil
				}
			}

			o.logger.Debug().Str("symbol", symbol).Stringer("index", observations.Kind()).Int("rows", price.Len()).Msg("aligning to price calendar")
			aligned, err := align.AlignToPrice(price, observations)
			if err != nil {
				return err
			}
			return data.WriteFrame(cmd.OutOrStdout(), aligned, "date", data.DateLayout)
		},
	}
	rf.bind(cmd, "2018-01-01")
	return cmd
}

func newUniverseCommand(o *options) *cobra.Command {
	var tradable bool
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "List the symbol universe (VNX.csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks, err := data.Stocks(o.cfg.GetUniversePath())
			if err != nil {
				return err
			}
			if tradable {
				threshold, err := o.cfg.GetTradableThreshold()
				if err != nil {
					return err
				}
				stocks = data.Tradable(stocks, threshold)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ticker,"+data.LiquidityColumn)
			for _, s := range stocks {
				liquidity := ""
				if s.HasValue {
					liquidity = s.Liquidity.String()
				}
				fmt.Fprintf(out, "%s,%s\n", s.Ticker, liquidity)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tradable, "tradable", false, "only symbols above the liquidity threshold")
	return cmd
}

func newBenchmarkCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark [SYMBOL]",
		Short: "Print benchmark daily returns as consumed by the backtest framework",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := o.loader()
			if err != nil {
				return err
			}
			bt, err := o.cfg.ToBacktestConfig(benchmark.NewPriceReturns(loader, o.cfg.Benchmark.Aliases))
			if err != nil {
				return err
			}
			if len(args) == 1 {
				bt.Benchmark = args[0]
			}
			series, err := bt.BenchmarkReturns.BenchmarkReturns(bt.Benchmark)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "date,return")
			for i := 0; i < series.Len(); i++ {
				fmt.Fprintf(out, "%s,%s\n", series.Dates[i].Format("2006-01-02T15:04:05Z07:00"), strconv.FormatFloat(series.Returns[i], 'f', -1, 64))
			}
			return nil
		},
	}
}

func newLocateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locate SYMBOL KIND",
		Short: "List every exchange folder holding SYMBOL/KIND.csv, in lookup order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseKind(args[1])
			if err != nil {
				return err
			}
			loader, err := o.loader()
			if err != nil {
				return err
			}
			candidates := loader.Resolver().Candidates(args[0], kind)
			if len(candidates) == 0 {
				o.logger.Warn().Str("symbol", args[0]).Str("kind", args[1]).Msg("not found")
				return nil
			}
			if len(candidates) > 1 {
				exchanges := make([]string, len(candidates))
				for i, c := range candidates {
					exchanges[i] = c.Exchange
				}
				o.logger.Warn().Str("symbol", args[0]).Str("exchanges", strings.Join(exchanges, ",")).Msg("ambiguous storage, first exchange wins")
			}
			out := cmd.OutOrStdout()
			for i, c := range candidates {
				mark := " "
				if i == 0 {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", mark, c.Exchange, c.Path)
			}
			return nil
		},
	}
}
