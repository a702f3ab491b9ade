// Package benchmark 为外部回测框架提供基准收益率
//
// 收益来源通过 types.BacktestConfig 注入，不替换任何全局函数。
package benchmark

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/opsxjacky/vnmarket/internal/data"
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// ErrBenchmarkNotFound 基准标的没有价格数据
var ErrBenchmarkNotFound = errors.New("benchmark not found")

// DefaultAliases 回测框架默认使用 SPY，本地对应 VNINDEX
var DefaultAliases = map[string]string{"SPY": "VNINDEX"}

// PriceReturns 基于本地日线收盘价计算基准收益率
type PriceReturns struct {
	loader  *data.Loader
	aliases map[string]string
}

var _ types.BenchmarkSource = (*PriceReturns)(nil)

// NewPriceReturns 创建基准收益来源，aliases 为空时使用 DefaultAliases
func NewPriceReturns(loader *data.Loader, aliases map[string]string) *PriceReturns {
	if len(aliases) == 0 {
		aliases = DefaultAliases
	}
	return &PriceReturns{loader: loader, aliases: maps.Clone(aliases)}
}

// Symbol 返回别名映射后的本地标的
func (p *PriceReturns) Symbol(symbol string) string {
	if local, ok := p.aliases[symbol]; ok {
		return local
	}
	return symbol
}

// BenchmarkReturns 返回收盘价的日收益率 close[i]/close[i-1]-1，从第二个观测开始
func (p *PriceReturns) BenchmarkReturns(symbol string) (*types.ReturnSeries, error) {
	local := p.Symbol(symbol)
	found, err := p.loader.LoadPrice(local, types.Range{}, types.Daily, types.Close)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark %s: %w", local, err)
	}
	prices, ok := found.Get()
	if !ok {
		return nil, fmt.Errorf("%s: %w", local, ErrBenchmarkNotFound)
	}
	return PctChange(local, prices.Index(), prices.FFill().Floats(string(types.Close))), nil
}

// PctChange 计算相邻两个值的变化率，时间转换为UTC
//
// 第一个观测没有前值，不出现在结果中。
func PctChange(symbol string, dates []time.Time, values []float64) *types.ReturnSeries {
	series := &types.ReturnSeries{Symbol: symbol}
	for i := 1; i < len(values); i++ {
		series.Dates = append(series.Dates, dates[i].UTC())
		series.Returns = append(series.Returns, values[i]/values[i-1]-1)
	}
	return series
}
