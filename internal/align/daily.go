package align

import (
	"fmt"
	"time"

	"github.com/opsxjacky/vnmarket/internal/data"
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// DefaultBenchmarkFile 默认基准指数价格文件
const DefaultBenchmarkFile = "VN30F/vnindex/Price.csv"

// DailyAligner 把单个价格文件对齐到基准指数的交易日历上
type DailyAligner struct {
	benchmark string
}

// NewDailyAligner 创建对齐器，benchmark 为基准指数价格文件
func NewDailyAligner(benchmark string) *DailyAligner {
	if benchmark == "" {
		benchmark = DefaultBenchmarkFile
	}
	return &DailyAligner{benchmark: benchmark}
}

// Benchmark 基准文件路径
func (a *DailyAligner) Benchmark() string { return a.benchmark }

// Align 对齐 source 从 start 开始的数据
//
// 左连接到基准日历后先前向再后向填充，仍有缺失的行删除。
// source 在区间内没有数据时返回 None。
func (a *DailyAligner) Align(source string, start time.Time) (types.Maybe[*types.Frame], error) {
	r := types.Since(start)
	calendar, err := data.ReadCalendar(a.benchmark, r)
	if err != nil {
		return types.None[*types.Frame](), fmt.Errorf("failed to load benchmark calendar: %w", err)
	}
	prices, err := data.ReadPriceFile(source, r)
	if err != nil {
		return types.None[*types.Frame](), fmt.Errorf("failed to load source: %w", err)
	}
	if prices.Empty() {
		return types.None[*types.Frame](), nil
	}

	joined, err := calendar.Join(prices, types.LeftJoin)
	if err != nil {
		return types.None[*types.Frame](), fmt.Errorf("failed to join source onto calendar: %w", err)
	}
	return types.Some(joined.FFill().BFill().DropNA()), nil
}

// Run 对齐并写入 dest，返回是否写入了文件
func (a *DailyAligner) Run(source, dest string, start time.Time) (bool, error) {
	found, err := a.Align(source, start)
	if err != nil {
		return false, err
	}
	aligned, ok := found.Get()
	if !ok {
		return false, nil
	}
	if err := data.WriteFrameFile(dest, aligned, "date", data.DateLayout); err != nil {
		return false, err
	}
	return true, nil
}
