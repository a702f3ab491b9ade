package types

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/series"
)

const (
	// indexKey 日期索引在 DataFrame 中的键列名
	indexKey = "_index"
	// indexLayout 键列的定宽 UTC 格式，字符串顺序即时间顺序
	indexLayout = "2006-01-02T15:04:05.000000000"
)

func indexKeyOf(t time.Time) string { return t.UTC().Format(indexLayout) }

func parseIndexKey(s string) time.Time {
	t, err := time.Parse(indexLayout, s)
	if err != nil {
		panic(fmt.Sprintf("frame: bad index key %q", s))
	}
	return t
}

func indexSeries(index []time.Time) series.Series {
	keys := make([]string, len(index))
	for i, t := range index {
		keys[i] = indexKeyOf(t)
	}
	return series.New(keys, series.String, indexKey)
}

// isNA 缺失判断
//
// 连接时 gota 逐个复制元素，Float 的缺失可能变成 NaN，String 的缺失可能变成 "NaN"。
func isNA(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	switch e.Type() {
	case series.Float:
		return math.IsNaN(e.Float())
	case series.String:
		return e.String() == "NaN"
	}
	return false
}

// valueOf 单元格转换为 Value
func valueOf(e series.Element) Value {
	if isNA(e) {
		return NA()
	}
	switch e.Type() {
	case series.Float:
		return Number(e.Float())
	case series.Int:
		n, err := e.Int()
		if err != nil {
			return NA()
		}
		return Number(float64(n))
	default:
		return ParseValue(e.String())
	}
}

// newSeries 由一列 Value 构建 series
//
// 全部为数值(或缺失)的列使用 Float，含文本的列使用 String。
func newSeries(name string, values []Value) series.Series {
	numeric := true
	for _, v := range values {
		if !v.IsNA() && !v.IsNumber() {
			numeric = false
			break
		}
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		switch {
		case v.IsNA():
			// nil 在 gota 中即缺失
		case numeric:
			cells[i] = v.Float64()
		default:
			cells[i] = v.String()
		}
	}
	if numeric {
		return series.New(cells, series.Float, name)
	}
	return series.New(cells, series.String, name)
}

// ffill 用最近一个已知值填充后续缺失
func ffill(s series.Series) series.Series {
	out := s.Copy()
	var last series.Element
	for i := 0; i < out.Len(); i++ {
		e := out.Elem(i)
		if !isNA(e) {
			last = e.Copy()
			continue
		}
		if last != nil {
			e.Set(last)
		}
	}
	return out
}

// bfill 用下一个已知值填充之前的缺失
func bfill(s series.Series) series.Series {
	out := s.Copy()
	var next series.Element
	for i := out.Len() - 1; i >= 0; i-- {
		e := out.Elem(i)
		if !isNA(e) {
			next = e.Copy()
			continue
		}
		if next != nil {
			e.Set(next)
		}
	}
	return out
}

// coalesce primary 缺失的位置取 fallback 的值
func coalesce(name string, primary, fallback series.Series) series.Series {
	out := primary.Copy()
	for i := 0; i < out.Len(); i++ {
		if isNA(out.Elem(i)) && !isNA(fallback.Elem(i)) {
			out.Elem(i).Set(fallback.Elem(i))
		}
	}
	out.Name = name
	return out
}
