package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency 价格数据频率
type Frequency string

const (
	Daily  Frequency = "daily"
	Minute Frequency = "minute"
)

// ParseFrequency 解析频率
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Daily, Minute:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q, want %q or %q", s, Daily, Minute)
}

// Field 价格字段
type Field string

const (
	Open   Field = "open"
	High   Field = "high"
	Low    Field = "low"
	Close  Field = "close"
	Volume Field = "volume"
)

// AllFields 所有价格字段，按文件列顺序
var AllFields = []Field{Open, High, Low, Close, Volume}

// ParseField 解析价格字段
func ParseField(s string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown price field %q", s)
}

// Kind 数据文件类别，对应 {Exchange}/{Symbol}/{Kind}.csv
type Kind string

const (
	KindPrice                  Kind = "Price"
	KindPrices                 Kind = "Prices" // 分钟线
	KindEvents                 Kind = "Events"
	KindBalanceSheet           Kind = "BalanceSheet"
	KindBalanceSheetQuarter    Kind = "BalanceSheetQuarter"
	KindIncomeStatement        Kind = "IncomeStatement"
	KindIncomeStatementQuarter Kind = "IncomeStatementQuarter"
	KindDCashFlow              Kind = "DCashFlow" // 直接法现金流量表
	KindDCashFlowQuarter       Kind = "DCashFlowQuarter"
	KindICashFlow              Kind = "ICashFlow" // 间接法现金流量表
	KindICashFlowQuarter       Kind = "ICashFlowQuarter"
	KindIndicators             Kind = "Indicators"
	KindIndicatorsQuarter      Kind = "IndicatorsQuarter"
	KindReport                 Kind = "Report"
)

// Kinds 所有已知文件类别
var Kinds = []Kind{
	KindPrice, KindPrices, KindEvents,
	KindBalanceSheet, KindBalanceSheetQuarter,
	KindIncomeStatement, KindIncomeStatementQuarter,
	KindDCashFlow, KindDCashFlowQuarter,
	KindICashFlow, KindICashFlowQuarter,
	KindIndicators, KindIndicatorsQuarter,
	KindReport,
}

// ParseKind 解析文件类别
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Range 日期区间，两端包含；零值端点表示不设限
type Range struct {
	From time.Time
	To   time.Time
}

// Since 从 from 开始不设上限的区间
func Since(from time.Time) Range { return Range{From: from} }

// Contains 判断日期是否在区间内
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Maybe 显式的 有/无 结果
//
// 找不到数据不是错误，但调用方必须通过 Get 区分"无数据"和"空表"。
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some 有数据
func Some[T any](v T) Maybe[T] { return Maybe[T]{value: v, ok: true} }

// None 无数据
func None[T any]() Maybe[T] { return Maybe[T]{} }

// Get 返回值和是否存在
func (m Maybe[T]) Get() (T, bool) { return m.value, m.ok }

// Present 是否存在
func (m Maybe[T]) Present() bool { return m.ok }

// ReturnSeries 基准收益率序列 (UTC)
type ReturnSeries struct {
	Symbol  string
	Dates   []time.Time
	Returns []float64
}

// Len 序列长度
func (s *ReturnSeries) Len() int { return len(s.Dates) }

// BenchmarkSource 回测框架使用的基准收益来源，通过配置注入
type BenchmarkSource interface {
	BenchmarkReturns(symbol string) (*ReturnSeries, error)
}

// BacktestConfig 交给外部回测框架的配置
type BacktestConfig struct {
	StartDate        time.Time
	EndDate          time.Time
	Symbols          []string
	Benchmark        string
	BenchmarkReturns BenchmarkSource
}

// Stock 股票列表中的一行
type Stock struct {
	Ticker    string
	Liquidity decimal.Decimal   // AvgValue20P，20日平均成交额
	HasValue  bool              // 流动性是否可解析
	Fields    map[string]string // 其余列原样保留
}
