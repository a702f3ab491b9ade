package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/vnmarket/internal/align"
	"github.com/opsxjacky/vnmarket/internal/data"
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// Config 配置文件结构
type Config struct {
	Data      DataSection      `yaml:"data" toml:"data"`
	Benchmark BenchmarkSection `yaml:"benchmark" toml:"benchmark"`
	Daily     DailySection     `yaml:"daily" toml:"daily"`
	Backtest  BacktestSection  `yaml:"backtest" toml:"backtest"`
	Logging   LoggingSection   `yaml:"logging" toml:"logging"`
}

// DataSection 数据目录配置
type DataSection struct {
	Dir               string   `yaml:"dir" toml:"dir"`
	Exchanges         []string `yaml:"exchanges" toml:"exchanges" validate:"unique,dive,required"` // 顺序即查找优先级
	UniverseFile      string   `yaml:"universe_file" toml:"universe_file"`
	TradableThreshold string   `yaml:"tradable_threshold" toml:"tradable_threshold"`
}

// BenchmarkSection 基准配置
type BenchmarkSection struct {
	File    string            `yaml:"file" toml:"file"`
	Aliases map[string]string `yaml:"aliases" toml:"aliases"`
}

// DailySection 日线对齐配置
type DailySection struct {
	StartDate string `yaml:"start_date" toml:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// BacktestSection 交给外部回测框架的配置
type BacktestSection struct {
	StartDate string   `yaml:"start_date" toml:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `yaml:"end_date" toml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Symbols   []string `yaml:"symbols" toml:"symbols"`
	Benchmark string   `yaml:"benchmark" toml:"benchmark"`
}

// LoggingSection 日志配置
type LoggingSection struct {
	Level string `yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`
}

// Default 默认配置
func Default() *Config {
	return &Config{}
}

// LoadConfig 从文件加载配置，.toml 使用 TOML，其余按 YAML 解析
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &config)
	default:
		err = yaml.Unmarshal(raw, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// validate 共享的配置校验器
var validate = validator.New()

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.GetTradableThreshold(); err != nil {
		return err
	}
	return nil
}

// GetDataDir 获取数据目录
func (c *Config) GetDataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}
	return "."
}

// GetExchangeRoots 获取有序的交易所目录
//
// 配置没有列出交易所时，按名称顺序扫描数据目录下的子目录。
func (c *Config) GetExchangeRoots() ([]string, error) {
	if len(c.Data.Exchanges) == 0 {
		return data.DiscoverExchanges(c.GetDataDir())
	}
	roots := make([]string, len(c.Data.Exchanges))
	for i, ex := range c.Data.Exchanges {
		if filepath.IsAbs(ex) {
			roots[i] = ex
		} else {
			roots[i] = filepath.Join(c.GetDataDir(), ex)
		}
	}
	return roots, nil
}

// GetUniversePath 获取股票列表文件路径
func (c *Config) GetUniversePath() string {
	name := c.Data.UniverseFile
	if name == "" {
		name = data.UniverseFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.GetDataDir(), name)
}

// GetTradableThreshold 获取可交易门槛
func (c *Config) GetTradableThreshold() (decimal.Decimal, error) {
	return data.ParseThreshold(c.Data.TradableThreshold)
}

// GetBenchmarkFile 获取基准指数价格文件
func (c *Config) GetBenchmarkFile() string {
	name := c.Benchmark.File
	if name == "" {
		name = align.DefaultBenchmarkFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.GetDataDir(), name)
}

// GetStartDate 获取默认开始日期
func (c *Config) GetStartDate() string {
	if c.Daily.StartDate != "" {
		return c.Daily.StartDate
	}
	return "2018-01-01"
}

// ToBacktestConfig 转换为回测配置，基准收益来源由调用方注入
func (c *Config) ToBacktestConfig(source types.BenchmarkSource) (types.BacktestConfig, error) {
	var startDate, endDate time.Time
	var err error
	if c.Backtest.StartDate != "" {
		if startDate, err = time.Parse(data.DateLayout, c.Backtest.StartDate); err != nil {
			return types.BacktestConfig{}, fmt.Errorf("invalid start_date: %w", err)
		}
	}
	if c.Backtest.EndDate != "" {
		if endDate, err = time.Parse(data.DateLayout, c.Backtest.EndDate); err != nil {
			return types.BacktestConfig{}, fmt.Errorf("invalid end_date: %w", err)
		}
	}

	benchmark := c.Backtest.Benchmark
	if benchmark == "" {
		benchmark = "SPY"
	}
	return types.BacktestConfig{
		StartDate:        startDate,
		EndDate:          endDate,
		Symbols:          c.Backtest.Symbols,
		Benchmark:        benchmark,
		BenchmarkReturns: source,
	}, nil
}

// GetLogLevel 获取日志级别
func (c *Config) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}
