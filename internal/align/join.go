// Package align 把不同频率的数据对齐到同一个日历上
package align

import (
	"fmt"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// AlignToPrice 把低频的基本面或事件数据对齐到日线价格上
//
// 每个价格日期取最近一次(不晚于该日期)观测到的值，第一次观测之前保持缺失。
// 结果的行数和顺序与 price 完全一致。
func AlignToPrice(price *types.Frame, observations types.Observations) (*types.Frame, error) {
	// 季度表在这里展开为按报告日期索引的行
	fund, err := observations.Dated()
	if err != nil {
		return nil, fmt.Errorf("failed to index %s observations by date: %w", observations.Kind(), err)
	}
	// 同一日期的多条观测先按原顺序前向填充再只保留最后一行，
	// 这样每列取到的是该日期为止最后一个已知值，也不会复制价格行
	fund = fund.Sorted().FFill().DedupLast()

	// 价格日期与观测日期取并集后前向填充，再取回价格日期
	calendar := uniqueCalendar(price)
	combined, err := calendar.Join(fund, types.OuterJoin)
	if err != nil {
		return nil, fmt.Errorf("failed to combine calendars: %w", err)
	}

	filled, err := combined.FFill().Reindex(calendar.Index())
	if err != nil {
		return nil, err
	}
	return price.Join(filled, types.LeftJoin)
}

// uniqueCalendar 价格日期组成的无列表，去重
func uniqueCalendar(price *types.Frame) *types.Frame {
	calendar := types.NewBuilder()
	for _, t := range price.Index() {
		calendar.Append(t)
	}
	return calendar.Build().DedupLast()
}
