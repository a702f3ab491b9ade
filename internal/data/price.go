package data

import (
	"fmt"
	"slices"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// priceSource 频率对应的文件类别和日期格式
func priceSource(freq types.Frequency) (types.Kind, string, error) {
	switch freq {
	case types.Daily, "":
		return types.KindPrice, DateLayout, nil
	case types.Minute:
		return types.KindPrices, MinuteLayout, nil
	}
	return "", "", fmt.Errorf("unknown frequency %q", freq)
}

// LoadPrice 加载价格数据
//
// fields 为空时加载全部 OHLCV 字段。返回的表按时间升序，
// 并标注来源交易所和标的代码。
func (l *Loader) LoadPrice(symbol string, r types.Range, freq types.Frequency, fields ...types.Field) (types.Maybe[*types.Frame], error) {
	kind, layout, err := priceSource(freq)
	if err != nil {
		return types.None[*types.Frame](), err
	}
	loc, ok := l.resolver.Resolve(symbol, kind)
	if !ok {
		return types.None[*types.Frame](), nil
	}

	if len(fields) == 0 {
		fields = types.AllFields
	}
	usecols := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, err := types.ParseField(string(f)); err != nil {
			return types.None[*types.Frame](), err
		}
		if !slices.Contains(usecols, string(f)) {
			usecols = append(usecols, string(f))
		}
	}

	prices, err := readFrame(loc.Path, frameSpec{
		index:     "date",
		layouts:   []string{layout},
		usecols:   usecols,
		numeric:   true,
		normalize: true,
	})
	if err != nil {
		return types.None[*types.Frame](), err
	}

	// 按日期排序，价格索引不允许重复
	prices = prices.Sorted()
	if !prices.UniqueIndex() {
		return types.None[*types.Frame](), &ParseError{Path: loc.Path, Err: types.ErrDuplicateIndex}
	}

	prices = prices.Slice(r)
	prices.Exchange = loc.Exchange
	prices.Symbol = symbol
	return types.Some(prices), nil
}

// LoadPrices 加载多个标的的同一字段
//
// 没有数据的标的直接跳过，列名为标的代码；结果的索引是所有标的日期的并集，
// 缺失的单元格保持为空。所有标的都没有数据时返回 None。
func (l *Loader) LoadPrices(symbols []string, r types.Range, freq types.Frequency, field types.Field) (types.Maybe[*types.Frame], error) {
	if field == "" {
		field = types.Close
	}

	var result *types.Frame
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		found, err := l.LoadPrice(symbol, r, freq, field)
		if err != nil {
			return types.None[*types.Frame](), fmt.Errorf("failed to load prices for %s: %w", symbol, err)
		}
		price, ok := found.Get()
		if !ok {
			continue
		}
		if err := price.Rename(string(field), symbol); err != nil {
			return types.None[*types.Frame](), err
		}

		if result == nil {
			result = price
			continue
		}
		if result, err = result.Join(price, types.OuterJoin); err != nil {
			return types.None[*types.Frame](), fmt.Errorf("failed to join prices for %s: %w", symbol, err)
		}
	}

	if result == nil {
		return types.None[*types.Frame](), nil
	}
	// 单个标的时也保证结果是一张与来源无关的表
	result.Exchange = ""
	result.Symbol = ""
	return types.Some(result), nil
}

// LoadEvents 加载公司事件，按披露日期索引
//
// 同一日期的多条事件全部保留，保持文件中的顺序。
func (l *Loader) LoadEvents(symbol string, r types.Range) (types.Maybe[*types.Frame], error) {
	loc, ok := l.resolver.Resolve(symbol, types.KindEvents)
	if !ok {
		return types.None[*types.Frame](), nil
	}
	events, err := readFrame(loc.Path, frameSpec{
		index:   "disclosuredDate",
		layouts: []string{DateLayout},
	})
	if err != nil {
		return types.None[*types.Frame](), err
	}
	events = events.Sorted().Slice(r)
	events.Exchange = loc.Exchange
	events.Symbol = symbol
	return types.Some(events), nil
}
