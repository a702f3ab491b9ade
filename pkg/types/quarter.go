package types

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	// YearColumn 复合键年份列名
	YearColumn = "Year"
	// QuarterColumn 复合键季度列名
	QuarterColumn = "Quarter"

	reportDateKey = "_report"
	reportJoinKey = "_report_right"
)

// QuarterKey (财年, 季度) 复合键
type QuarterKey struct {
	Year    int
	Quarter int
}

func (k QuarterKey) String() string { return fmt.Sprintf("%d-Q%d", k.Year, k.Quarter) }

// QuarterFrame 按 (年, 季度) 索引的财务报表
//
// DataFrame 的前两列是 Year、Quarter 键列。报告日期来自同键的 Report 表，
// 存放在与日期索引同格式的键列里，用于把报表放到日历上。
type QuarterFrame struct {
	Exchange string
	Symbol   string

	df dataframe.DataFrame
}

// QuarterBuilder 逐行构建 QuarterFrame
type QuarterBuilder struct {
	columns []string
	keys    []QuarterKey
	values  [][]Value
	dates   []time.Time // nil 表示没有报告日期列；零值表示该行缺失
}

// NewQuarterBuilder 创建季度表构建器
func NewQuarterBuilder(columns ...string) *QuarterBuilder {
	return &QuarterBuilder{
		columns: slices.Clone(columns),
		values:  make([][]Value, len(columns)),
	}
}

// Append 追加一行，键重复返回 ErrDuplicateKey
func (b *QuarterBuilder) Append(key QuarterKey, row ...Value) error {
	if len(row) != len(b.columns) {
		return fmt.Errorf("append %d values to %d columns", len(row), len(b.columns))
	}
	if slices.Contains(b.keys, key) {
		return fmt.Errorf("%s: %w", key, ErrDuplicateKey)
	}
	b.keys = append(b.keys, key)
	for i, v := range row {
		b.values[i] = append(b.values[i], v)
	}
	if b.dates != nil {
		b.dates = append(b.dates, time.Time{})
	}
	return nil
}

// EnableReportDates 声明该表带有报告日期列 (各行初始为缺失)
func (b *QuarterBuilder) EnableReportDates() {
	if b.dates == nil {
		b.dates = make([]time.Time, len(b.keys))
	}
}

// SetReportDate 设置某一行的报告日期
func (b *QuarterBuilder) SetReportDate(key QuarterKey, on time.Time) error {
	i := slices.Index(b.keys, key)
	if i < 0 {
		return fmt.Errorf("%s: unknown key", key)
	}
	b.EnableReportDates()
	b.dates[i] = on
	return nil
}

// Build 生成 QuarterFrame
func (b *QuarterBuilder) Build() *QuarterFrame {
	years := make([]int, len(b.keys))
	quarters := make([]int, len(b.keys))
	for i, k := range b.keys {
		years[i], quarters[i] = k.Year, k.Quarter
	}
	cols := []series.Series{
		series.New(years, series.Int, YearColumn),
		series.New(quarters, series.Int, QuarterColumn),
	}
	for c, name := range b.columns {
		cols = append(cols, newSeries(name, b.values[c]))
	}
	if b.dates != nil {
		cells := make([]interface{}, len(b.dates))
		for i, on := range b.dates {
			if !on.IsZero() {
				cells[i] = indexKeyOf(on)
			}
		}
		cols = append(cols, series.New(cells, series.String, reportDateKey))
	}
	return &QuarterFrame{df: dataframe.New(cols...)}
}

// Kind 实现 Observations
func (q *QuarterFrame) Kind() IndexKind { return QuarterIndexed }

// Len 行数
func (q *QuarterFrame) Len() int { return q.df.Nrow() }

// Keys 返回复合键
func (q *QuarterFrame) Keys() []QuarterKey {
	years, _ := q.df.Col(YearColumn).Int()
	quarters, _ := q.df.Col(QuarterColumn).Int()
	out := make([]QuarterKey, len(years))
	for i := range out {
		out[i] = QuarterKey{Year: years[i], Quarter: quarters[i]}
	}
	return out
}

// Columns 返回报表列名，不含键列和报告日期
func (q *QuarterFrame) Columns() []string {
	return slices.DeleteFunc(q.df.Names(), func(name string) bool {
		return name == YearColumn || name == QuarterColumn || name == reportDateKey
	})
}

// HasReportDates 是否带有报告日期列
func (q *QuarterFrame) HasReportDates() bool { return slices.Contains(q.df.Names(), reportDateKey) }

func (q *QuarterFrame) rowOf(key QuarterKey) int { return slices.Index(q.Keys(), key) }

// ReportDate 返回某一行的报告日期
func (q *QuarterFrame) ReportDate(key QuarterKey) (time.Time, bool) {
	i := q.rowOf(key)
	c := slices.Index(q.df.Names(), reportDateKey)
	if i < 0 || c < 0 {
		return time.Time{}, false
	}
	e := q.df.Elem(i, c)
	if isNA(e) {
		return time.Time{}, false
	}
	return parseIndexKey(e.String()), true
}

// Get 返回某一行的所有值
func (q *QuarterFrame) Get(key QuarterKey) ([]Value, bool) {
	i := q.rowOf(key)
	if i < 0 {
		return nil, false
	}
	names := q.df.Names()
	columns := q.Columns()
	row := make([]Value, len(columns))
	for c, name := range columns {
		row[c] = valueOf(q.df.Elem(i, slices.Index(names, name)))
	}
	return row, true
}

// At 返回指定键和列的值
func (q *QuarterFrame) At(key QuarterKey, column string) Value {
	i := q.rowOf(key)
	if i < 0 || !slices.Contains(q.Columns(), column) {
		return NA()
	}
	return valueOf(q.df.Elem(i, slices.Index(q.df.Names(), column)))
}

// Join 按复合键左连接 report 的列和报告日期
//
// 两边都有报告日期时以 report 为准，report 缺失的行沿用自身的日期。
func (q *QuarterFrame) Join(report *QuarterFrame) (*QuarterFrame, error) {
	own := q.Columns()
	for _, name := range report.Columns() {
		if slices.Contains(own, name) {
			return nil, fmt.Errorf("join column %q: %w", name, ErrColumnOverlap)
		}
	}
	right := report.df
	both := q.HasReportDates() && report.HasReportDates()
	if both {
		right = right.Rename(reportJoinKey, reportDateKey)
	}
	df := q.df.LeftJoin(right, YearColumn, QuarterColumn)
	if both && df.Err == nil {
		df = df.Mutate(coalesce(reportDateKey, df.Col(reportJoinKey), df.Col(reportDateKey))).Drop(reportJoinKey)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("join report %s: %w", report.Symbol, df.Err)
	}
	return &QuarterFrame{Exchange: q.Exchange, Symbol: q.Symbol, df: df}, nil
}

// Dated 实现 Observations：复合键保留为 Year、Quarter 两列，按报告日期重新索引
//
// 没有报告日期的行无法放到日历上，直接丢弃。
func (q *QuarterFrame) Dated() (*Frame, error) {
	if !q.HasReportDates() {
		return nil, fmt.Errorf("%s: %w", q.Symbol, ErrNoDateColumn)
	}
	dates := q.df.Col(reportDateKey)
	rows := make([]int, 0, dates.Len())
	for i := 0; i < dates.Len(); i++ {
		if !isNA(dates.Elem(i)) {
			rows = append(rows, i)
		}
	}
	f := &Frame{Exchange: q.Exchange, Symbol: q.Symbol, df: q.df.Rename(indexKey, reportDateKey)}
	return f.subset(rows).Sorted(), nil
}
