package types

import (
	"math"
	"strconv"
	"strings"
)

// valueKind 单元格类型
type valueKind uint8

const (
	kindNA valueKind = iota
	kindNumber
	kindText
)

// Value 表格单元格：数值、文本或缺失(NA)
//
// 零值即缺失，缺失值永远不会被当作0处理。
type Value struct {
	num  float64
	text string
	kind valueKind
}

// NA 返回缺失值
func NA() Value { return Value{} }

// Number 创建数值单元格，NaN 视为缺失
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{num: f, kind: kindNumber}
}

// Text 创建文本单元格，空字符串视为缺失
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{text: s, kind: kindText}
}

// ParseValue 解析CSV单元格：空 -> 缺失，可解析为浮点数 -> 数值，否则 -> 文本
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(s)
}

// IsNA 是否缺失
func (v Value) IsNA() bool { return v.kind == kindNA }

// IsNumber 是否数值
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float 返回数值和是否为数值
func (v Value) Float() (float64, bool) {
	if v.kind != kindNumber {
		return math.NaN(), false
	}
	return v.num, true
}

// Float64 返回数值，非数值返回 NaN
func (v Value) Float64() float64 {
	f, _ := v.Float()
	return f
}

// String 格式化输出，缺失值为空字符串
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return ""
	}
}
