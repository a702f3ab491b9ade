package types

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// JoinHow 连接方式
type JoinHow int

const (
	// LeftJoin 保留左表的行集合与顺序
	LeftJoin JoinHow = iota
	// OuterJoin 取两表日期并集，升序
	OuterJoin
)

// Join 按日期键列连接 other 的列
//
// other 的索引必须唯一；外连接时左表索引也必须唯一。
// 没有对应值的单元格保持缺失。
func (f *Frame) Join(other *Frame, how JoinHow) (*Frame, error) {
	for _, name := range other.Columns() {
		if f.HasColumn(name) {
			return nil, fmt.Errorf("join column %q: %w", name, ErrColumnOverlap)
		}
	}
	if !other.UniqueIndex() {
		return nil, fmt.Errorf("%s: %w", other.Symbol, ErrDuplicateIndex)
	}

	var df dataframe.DataFrame
	switch how {
	case LeftJoin:
		df = f.df.LeftJoin(other.df, indexKey)
	case OuterJoin:
		if !f.UniqueIndex() {
			return nil, fmt.Errorf("%s: %w", f.Symbol, ErrDuplicateIndex)
		}
		// gota 把右表独有的行追加在末尾，按键列重排
		df = f.df.OuterJoin(other.df, indexKey)
		if df.Err == nil && df.Nrow() > 1 {
			df = df.Arrange(dataframe.Sort(indexKey))
		}
	default:
		return nil, fmt.Errorf("unknown join: %d", how)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("join %s: %w", other.Symbol, df.Err)
	}
	return f.with(df), nil
}

// Reindex 按给定索引重排，f 中没有的日期整行缺失
func (f *Frame) Reindex(index []time.Time) (*Frame, error) {
	b := NewBuilder()
	for _, t := range index {
		b.Append(t)
	}
	out, err := b.Build().Join(f, LeftJoin)
	if err != nil {
		return nil, err
	}
	out.Exchange, out.Symbol = f.Exchange, f.Symbol
	return out, nil
}

// FFill 逐列前向填充
func (f *Frame) FFill() *Frame { return f.with(f.df.Capply(ffill)) }

// BFill 逐列后向填充
func (f *Frame) BFill() *Frame { return f.with(f.df.Capply(bfill)) }

// DropNA 删除任何一列仍有缺失的行
func (f *Frame) DropNA() *Frame {
	names := f.df.Names()
	rows := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		keep := true
		for c, name := range names {
			if name != indexKey && isNA(f.df.Elem(i, c)) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, i)
		}
	}
	return f.subset(rows)
}

// DedupLast 同一日期出现多次时只保留最后一行，结果按日期升序
func (f *Frame) DedupLast() *Frame {
	keys := f.keys()
	last := make(map[string]int, len(keys))
	for i, k := range keys {
		last[k] = i
	}
	rows := make([]int, 0, len(last))
	for i, k := range keys {
		if last[k] == i {
			rows = append(rows, i)
		}
	}
	return f.subset(rows).Sorted()
}
