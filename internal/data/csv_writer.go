package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// ReadPriceFile 直接按路径读取 OHLCV 价格文件，结果按日期升序并截取区间
//
// 日期重复的文件返回 ParseError。
func ReadPriceFile(path string, r types.Range) (*types.Frame, error) {
	usecols := make([]string, len(types.AllFields))
	for i, f := range types.AllFields {
		usecols[i] = string(f)
	}
	prices, err := readFrame(path, frameSpec{
		index:     "date",
		layouts:   []string{DateLayout},
		usecols:   usecols,
		numeric:   true,
		normalize: true,
	})
	if err != nil {
		return nil, err
	}
	prices = prices.Sorted()
	if !prices.UniqueIndex() {
		return nil, &ParseError{Path: path, Err: types.ErrDuplicateIndex}
	}
	return prices.Slice(r), nil
}

// ReadCalendar 只读取价格文件的日期列作为交易日历
func ReadCalendar(path string, r types.Range) (*types.Frame, error) {
	calendar, err := readFrame(path, frameSpec{
		index:     "date",
		layouts:   []string{DateLayout},
		usecols:   []string{},
		normalize: true,
	})
	if err != nil {
		return nil, err
	}
	return calendar.Sorted().Slice(r), nil
}

// WriteFrame 把表写成CSV，第一列为索引
func WriteFrame(w io.Writer, frame *types.Frame, indexLabel, layout string) error {
	writer := csv.NewWriter(w)
	names := frame.Columns()
	if err := writer.Write(append([]string{indexLabel}, names...)); err != nil {
		return err
	}
	columns := make([][]types.Value, len(names))
	for c, name := range names {
		columns[c] = frame.Column(name)
	}
	for i, t := range frame.Index() {
		record := make([]string, 0, len(names)+1)
		record = append(record, t.Format(layout))
		for _, col := range columns {
			record = append(record, col[i].String())
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFrameFile 把表写入文件
func WriteFrameFile(path string, frame *types.Frame, indexLabel, layout string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file %s: %w", path, cerr)
		}
	}()
	if err := WriteFrame(file, frame, indexLabel, layout); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// WriteQuarterFrame 把季度表写成CSV，报告日期(如有)放在最后一列
func WriteQuarterFrame(w io.Writer, frame *types.QuarterFrame) error {
	writer := csv.NewWriter(w)
	header := append([]string{types.YearColumn, types.QuarterColumn}, frame.Columns()...)
	if frame.HasReportDates() {
		header = append(header, reportDateColumn)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, key := range frame.Keys() {
		row, _ := frame.Get(key)
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(key.Year), strconv.Itoa(key.Quarter))
		for _, v := range row {
			record = append(record, v.String())
		}
		if frame.HasReportDates() {
			on, ok := frame.ReportDate(key)
			if ok {
				record = append(record, on.Format(DateLayout))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
