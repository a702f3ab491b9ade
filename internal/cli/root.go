// Package cli 命令行入口：daily 批量对齐和 marketdata 查询命令
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/opsxjacky/vnmarket/internal/config"
	"github.com/opsxjacky/vnmarket/internal/data"
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// options 所有命令共享的参数
type options struct {
	configPath string
	dataDir    string
	exchanges  []string
	logLevel   string

	cfg    *config.Config
	logger log.Logger
}

// bindFlags 注册公共参数
func (o *options) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "config file (.yaml or .toml)")
	flags.StringVar(&o.dataDir, "data-dir", "", "data directory containing exchange folders")
	flags.StringSliceVar(&o.exchanges, "exchange", nil, "exchange folders in lookup order (repeatable)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// setup 加载配置并初始化日志，命令行参数覆盖配置文件
func (o *options) setup(stderr io.Writer) error {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	if len(o.exchanges) > 0 {
		cfg.Data.Exchanges = o.exchanges
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = log.Logger{
		Level:  log.ParseLevel(cfg.GetLogLevel()),
		Writer: &log.ConsoleWriter{Writer: stderr},
	}
	return nil
}

// loader 按配置创建数据加载器
func (o *options) loader() (*data.Loader, error) {
	roots, err := o.cfg.GetExchangeRoots()
	if err != nil {
		return nil, err
	}
	if len(o.cfg.Data.Exchanges) == 0 {
		// 目录名顺序决定同一标的出现在多个交易所时取哪一个
		o.logger.Info().Strs("exchanges", roots).Msg("no exchanges configured, using discovered folders in name order")
	} else {
		o.logger.Debug().Strs("exchanges", roots).Msg("resolved exchange roots")
	}
	return data.NewLoader(data.NewResolver(roots...)), nil
}

// NewRootCommand 创建 marketdata 命令
func NewRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "marketdata",
		Short:         "Query local per-exchange market data files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd.ErrOrStderr())
		},
	}
	o.bindFlags(root)

	root.AddCommand(
		newPriceCommand(o),
		newPricesCommand(o),
		newEventsCommand(o),
		newFundamentalsCommand(o),
		newAlignCommand(o),
		newUniverseCommand(o),
		newBenchmarkCommand(o),
		newLocateCommand(o),
		newDailyCommand(o),
	)
	return root
}

// Execute 运行命令，出错时打印错误并以非零状态退出
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseRange 解析日期区间，分钟数据的结束日期包含当天所有分钟
func parseRange(start, end string, freq types.Frequency) (types.Range, error) {
	var r types.Range
	var err error
	if start != "" {
		if r.From, err = time.Parse(data.DateLayout, start); err != nil {
			return r, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if end != "" {
		if r.To, err = time.Parse(data.DateLayout, end); err != nil {
			return r, fmt.Errorf("invalid end date: %w", err)
		}
		if freq == types.Minute {
			r.To = r.To.Add(24*time.Hour - time.Minute)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return r, nil
}
