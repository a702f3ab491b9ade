package data

import (
	"github.com/opsxjacky/vnmarket/pkg/types"
)

// DataLoader 数据加载器接口
//
// 所有方法每次调用都重新读取文件，不做缓存。找不到数据返回 None，
// 只有文件内容损坏时才返回错误。
type DataLoader interface {
	// LoadPrice 加载单个标的的价格数据
	LoadPrice(symbol string, r types.Range, freq types.Frequency, fields ...types.Field) (types.Maybe[*types.Frame], error)

	// LoadPrices 加载多个标的的同一价格字段，按日期外连接
	LoadPrices(symbols []string, r types.Range, freq types.Frequency, field types.Field) (types.Maybe[*types.Frame], error)

	// LoadEvents 加载公司事件
	LoadEvents(symbol string, r types.Range) (types.Maybe[*types.Frame], error)

	// LoadStatement 加载季度财务报表
	LoadStatement(symbol string, kind types.Kind) (types.Maybe[*types.QuarterFrame], error)
}

// Loader 基于交易所目录的CSV数据加载器
type Loader struct {
	resolver *Resolver
}

var _ DataLoader = (*Loader)(nil)

// NewLoader 创建加载器
func NewLoader(resolver *Resolver) *Loader {
	return &Loader{resolver: resolver}
}

// Resolver 返回文件查找器
func (l *Loader) Resolver() *Resolver { return l.resolver }
