package data

import (
	"fmt"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// reportDateColumn Report 表中的报告发布日期列
const reportDateColumn = "date"

// LoadStatement 加载按 (Year, Quarter) 索引的财务报表
//
// 同一目录下存在 Report.csv 时，按复合键左连接以附加报告发布日期。
func (l *Loader) LoadStatement(symbol string, kind types.Kind) (types.Maybe[*types.QuarterFrame], error) {
	loc, ok := l.resolver.Resolve(symbol, kind)
	if !ok {
		return types.None[*types.QuarterFrame](), nil
	}
	statement, err := readQuarterFrame(loc.Path, "")
	if err != nil {
		return types.None[*types.QuarterFrame](), err
	}

	// Report 必须与报表位于同一交易所目录
	if reportLoc, ok := l.resolver.sibling(loc, types.KindReport); ok && kind != types.KindReport {
		report, err := readQuarterFrame(reportLoc.Path, reportDateColumn)
		if err != nil {
			return types.None[*types.QuarterFrame](), err
		}
		statement, err = statement.Join(report)
		if err != nil {
			return types.None[*types.QuarterFrame](), fmt.Errorf("failed to join %s: %w", reportLoc.Path, err)
		}
	}

	statement.Exchange = loc.Exchange
	statement.Symbol = symbol
	return types.Some(statement), nil
}

// firstStatement 按顺序加载第一个存在的报表
func (l *Loader) firstStatement(symbol string, kinds ...types.Kind) (types.Maybe[*types.QuarterFrame], error) {
	for _, kind := range kinds {
		found, err := l.LoadStatement(symbol, kind)
		if err != nil || found.Present() {
			return found, err
		}
	}
	return types.None[*types.QuarterFrame](), nil
}

// BalanceSheet 资产负债表
func (l *Loader) BalanceSheet(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindBalanceSheet)
}

// BalanceSheetQuarter 季度资产负债表
func (l *Loader) BalanceSheetQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindBalanceSheetQuarter)
}

// IncomeStatement 利润表
func (l *Loader) IncomeStatement(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindIncomeStatement)
}

// IncomeStatementQuarter 季度利润表
func (l *Loader) IncomeStatementQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindIncomeStatementQuarter)
}

// DCashFlow 直接法现金流量表
func (l *Loader) DCashFlow(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindDCashFlow)
}

// DCashFlowQuarter 季度直接法现金流量表
func (l *Loader) DCashFlowQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindDCashFlowQuarter)
}

// ICashFlow 间接法现金流量表
func (l *Loader) ICashFlow(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindICashFlow)
}

// ICashFlowQuarter 季度间接法现金流量表
func (l *Loader) ICashFlowQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindICashFlowQuarter)
}

// CashFlow 现金流量表：间接法优先，不存在时才使用直接法
func (l *Loader) CashFlow(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.firstStatement(symbol, types.KindICashFlow, types.KindDCashFlow)
}

// CashFlowQuarter 季度现金流量表：间接法优先，不存在时才使用直接法
func (l *Loader) CashFlowQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.firstStatement(symbol, types.KindICashFlowQuarter, types.KindDCashFlowQuarter)
}

// Indicators 财务指标
func (l *Loader) Indicators(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindIndicators)
}

// IndicatorsQuarter 季度财务指标
func (l *Loader) IndicatorsQuarter(symbol string) (types.Maybe[*types.QuarterFrame], error) {
	return l.LoadStatement(symbol, types.KindIndicatorsQuarter)
}

// Statement 按名称获取报表，"CashFlow"/"CashFlowQuarter" 使用间接法优先规则
func (l *Loader) Statement(symbol, name string) (types.Maybe[*types.QuarterFrame], error) {
	switch name {
	case "CashFlow":
		return l.CashFlow(symbol)
	case "CashFlowQuarter":
		return l.CashFlowQuarter(symbol)
	}
	kind, err := types.ParseKind(name)
	if err != nil {
		return types.None[*types.QuarterFrame](), err
	}
	switch kind {
	case types.KindPrice, types.KindPrices, types.KindEvents:
		return types.None[*types.QuarterFrame](), fmt.Errorf("%s is not a statement", kind)
	}
	return l.LoadStatement(symbol, kind)
}
