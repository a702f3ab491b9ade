package data

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

const (
	// UniverseFile 全市场股票列表文件
	UniverseFile = "VNX.csv"
	// LiquidityColumn 20日平均成交额列
	LiquidityColumn = "AvgValue20P"
)

// DefaultTradableThreshold 可交易股票的流动性门槛 (8亿)
var DefaultTradableThreshold = decimal.NewFromInt(800_000_000)

// Stocks 读取股票列表，按 ticker 索引
func Stocks(path string) ([]types.Stock, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	names := headerNames(f.header, false)
	colIndex := parseHeader(names)
	ti, ok := colIndex["ticker"]
	if !ok {
		return nil, f.errorf(-1, "missing index column %q", "ticker")
	}
	li, hasLiquidity := colIndex[LiquidityColumn]

	stocks := make([]types.Stock, 0, len(f.records))
	for i, row := range f.records {
		stock := types.Stock{
			Ticker: strings.TrimSpace(row[ti]),
			Fields: make(map[string]string, len(row)-1),
		}
		if stock.Ticker == "" {
			return nil, f.errorf(i, "empty ticker")
		}
		for c, name := range names {
			if c != ti {
				stock.Fields[name] = row[c]
			}
		}
		if hasLiquidity {
			if v, err := decimal.NewFromString(strings.TrimSpace(row[li])); err == nil {
				stock.Liquidity = v
				stock.HasValue = true
			}
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// StocksIn 读取数据目录下的 VNX.csv
func StocksIn(dataDir string) ([]types.Stock, error) {
	return Stocks(filepath.Join(dataDir, UniverseFile))
}

// Tradable 流动性严格大于门槛的股票；流动性缺失的股票不可交易
func Tradable(stocks []types.Stock, threshold decimal.Decimal) []types.Stock {
	out := make([]types.Stock, 0, len(stocks))
	for _, s := range stocks {
		if s.HasValue && s.Liquidity.GreaterThan(threshold) {
			out = append(out, s)
		}
	}
	return out
}

// ParseThreshold 解析流动性门槛，支持 "8e8" 这样的写法
func ParseThreshold(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultTradableThreshold, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tradable threshold %q: %w", s, err)
	}
	return d, nil
}
