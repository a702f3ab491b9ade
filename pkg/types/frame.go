package types

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrColumnOverlap 连接的两张表存在同名列
	ErrColumnOverlap = errors.New("columns overlap")
	// ErrDuplicateIndex 索引存在重复日期
	ErrDuplicateIndex = errors.New("duplicate index")
	// ErrDuplicateKey 季度键重复
	ErrDuplicateKey = errors.New("duplicate quarter key")
	// ErrNoDateColumn 季度表没有报告日期列
	ErrNoDateColumn = errors.New("no report date column")
	// ErrUnknownColumn 列不存在
	ErrUnknownColumn = errors.New("unknown column")
)

// IndexKind 表的索引类型，在加载时确定
type IndexKind int

const (
	// DateIndexed 按日期(或日期时间)索引
	DateIndexed IndexKind = iota
	// QuarterIndexed 按 (年, 季度) 复合键索引，可附带报告日期列
	QuarterIndexed
)

func (k IndexKind) String() string {
	switch k {
	case DateIndexed:
		return "date"
	case QuarterIndexed:
		return "quarter"
	default:
		return fmt.Sprintf("IndexKind(%d)", int(k))
	}
}

// Observations 可以按日期对齐到价格日历上的表
type Observations interface {
	// Kind 索引类型
	Kind() IndexKind
	// Dated 返回按日期索引的行形式
	Dated() (*Frame, error)
}

// Frame 按日期索引的表
//
// 数据存放在 gota DataFrame 中，日期索引是其中的字符串键列，
// 连接、排序、区间切片都直接作用在这一列上。
// PriceSeries、EventsTable 以及所有对齐结果都使用 Frame。
type Frame struct {
	Exchange string // 数据来源交易所
	Symbol   string // 标的代码

	df dataframe.DataFrame
}

// Builder 逐行构建 Frame
type Builder struct {
	columns []string
	index   []time.Time
	values  [][]Value // values[列][行]
}

// NewBuilder 创建构建器
func NewBuilder(columns ...string) *Builder {
	return &Builder{
		columns: slices.Clone(columns),
		values:  make([][]Value, len(columns)),
	}
}

// Append 追加一行，值的个数必须等于列数
func (b *Builder) Append(t time.Time, row ...Value) {
	if len(row) != len(b.columns) {
		panic(fmt.Sprintf("frame: append %d values to %d columns", len(row), len(b.columns)))
	}
	b.index = append(b.index, t)
	for i, v := range row {
		b.values[i] = append(b.values[i], v)
	}
}

// Build 生成 Frame，行顺序与追加顺序一致
func (b *Builder) Build() *Frame {
	cols := make([]series.Series, 0, len(b.columns)+1)
	cols = append(cols, indexSeries(b.index))
	for c, name := range b.columns {
		cols = append(cols, newSeries(name, b.values[c]))
	}
	return &Frame{df: dataframe.New(cols...)}
}

// Kind 实现 Observations
func (f *Frame) Kind() IndexKind { return DateIndexed }

// Dated 实现 Observations，已按日期索引，直接返回
func (f *Frame) Dated() (*Frame, error) { return f, nil }

// Len 行数
func (f *Frame) Len() int { return f.df.Nrow() }

// Empty 是否没有数据行
func (f *Frame) Empty() bool { return f.Len() == 0 }

func (f *Frame) keys() []string { return f.df.Col(indexKey).Records() }

// Index 返回索引副本
func (f *Frame) Index() []time.Time {
	keys := f.keys()
	out := make([]time.Time, len(keys))
	for i, k := range keys {
		out[i] = parseIndexKey(k)
	}
	return out
}

// Columns 返回数据列名
func (f *Frame) Columns() []string {
	return slices.DeleteFunc(f.df.Names(), func(name string) bool { return name == indexKey })
}

func (f *Frame) columnIndex(name string) int {
	if name == indexKey {
		return -1
	}
	return slices.Index(f.df.Names(), name)
}

// HasColumn 是否包含列
func (f *Frame) HasColumn(name string) bool { return f.columnIndex(name) >= 0 }

// Time 第i行的索引
func (f *Frame) Time(i int) time.Time {
	return parseIndexKey(f.df.Elem(i, slices.Index(f.df.Names(), indexKey)).String())
}

// At 第i行指定列的值，列不存在返回缺失
func (f *Frame) At(i int, column string) Value {
	c := f.columnIndex(column)
	if c < 0 {
		return NA()
	}
	return valueOf(f.df.Elem(i, c))
}

// Column 返回列副本，列不存在返回 nil
func (f *Frame) Column(name string) []Value {
	if !f.HasColumn(name) {
		return nil
	}
	s := f.df.Col(name)
	out := make([]Value, s.Len())
	for i := range out {
		out[i] = valueOf(s.Elem(i))
	}
	return out
}

// Floats 返回数值列，缺失或非数值为 NaN
func (f *Frame) Floats(name string) []float64 {
	col := f.Column(name)
	if col == nil {
		return nil
	}
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = v.Float64()
	}
	return out
}

// Rename 重命名列
func (f *Frame) Rename(from, to string) error {
	if !f.HasColumn(from) {
		return fmt.Errorf("rename %q: %w", from, ErrUnknownColumn)
	}
	if from == to {
		return nil
	}
	if to == indexKey || f.HasColumn(to) {
		return fmt.Errorf("rename %q to %q: %w", from, to, ErrColumnOverlap)
	}
	df := f.df.Rename(to, from)
	if df.Err != nil {
		return fmt.Errorf("rename %q: %w", from, df.Err)
	}
	f.df = df
	return nil
}

// Slice 返回落在区间内的行，保持原有顺序
func (f *Frame) Slice(r Range) *Frame {
	df := f.df.Copy()
	if !r.From.IsZero() && df.Nrow() > 0 {
		df = df.Filter(dataframe.F{Colname: indexKey, Comparator: series.GreaterEq, Comparando: indexKeyOf(r.From)})
	}
	if !r.To.IsZero() && df.Nrow() > 0 {
		df = df.Filter(dataframe.F{Colname: indexKey, Comparator: series.LessEq, Comparando: indexKeyOf(r.To)})
	}
	return f.with(df)
}

// Sorted 返回按日期升序稳定排序的副本，同日期的行保持原有顺序
func (f *Frame) Sorted() *Frame {
	if f.Len() < 2 {
		return f.with(f.df.Copy())
	}
	return f.with(f.df.Arrange(dataframe.Sort(indexKey)))
}

// UniqueIndex 索引是否没有重复日期
func (f *Frame) UniqueIndex() bool {
	keys := f.keys()
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// subset 按行号取行
func (f *Frame) subset(rows []int) *Frame {
	if len(rows) == 0 {
		return f.with(f.df.Capply(func(s series.Series) series.Series { return s.Empty() }))
	}
	return f.with(f.df.Subset(rows))
}

// with 同来源的新表
func (f *Frame) with(df dataframe.DataFrame) *Frame {
	return &Frame{Exchange: f.Exchange, Symbol: f.Symbol, df: df}
}
