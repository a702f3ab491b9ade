package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// ErrParse 数据文件内容无法解析
var ErrParse = errors.New("parse failure")

// 日期格式
const (
	DateLayout   = "2006-01-02"
	MinuteLayout = "2006-01-02T15:04"
)

// ParseError CSV解析错误，带文件和行号
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is 所有解析错误都匹配 ErrParse
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// csvFile 读取后的CSV文件
type csvFile struct {
	path    string
	header  []string
	records [][]string
	lines   []int // 每条记录的起始行号
}

// readCSV 读取整个CSV文件
func readCSV(path string) (*csvFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Err: errors.New("no columns to parse from file")}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	// 去掉 UTF-8 BOM
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	f := &csvFile{path: path, header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError 已包含行号
			return nil, &ParseError{Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		f.records = append(f.records, row)
		f.lines = append(f.lines, line)
	}
	return f, nil
}

func (f *csvFile) errorf(i int, format string, args ...any) error {
	line := 0
	if i >= 0 && i < len(f.lines) {
		line = f.lines[i]
	}
	return &ParseError{Path: f.path, Line: line, Err: fmt.Errorf(format, args...)}
}

// headerNames 返回表头列名
//
// normalize 为 true 时价格列名统一为小写 (Open/OPEN -> open)。
func headerNames(header []string, normalize bool) []string {
	names := make([]string, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if normalize {
			switch name {
			case "Date", "date", "DATE":
				name = "date"
			case "Open", "open", "OPEN":
				name = string(types.Open)
			case "High", "high", "HIGH":
				name = string(types.High)
			case "Low", "low", "LOW":
				name = string(types.Low)
			case "Close", "close", "CLOSE":
				name = string(types.Close)
			case "Volume", "volume", "VOLUME":
				name = string(types.Volume)
			}
		}
		names[i] = name
	}
	return names
}

// parseHeader 解析CSV表头，返回列名 -> 下标，重名列以第一个为准
func parseHeader(names []string) map[string]int {
	colIndex := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := colIndex[name]; !dup {
			colIndex[name] = i
		}
	}
	return colIndex
}

// parseDate 按给定格式依次尝试解析日期
func parseDate(dateStr string, formats ...string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q, want format %q", dateStr, formats[0])
}

// frameSpec 描述如何把CSV读成按日期索引的表
type frameSpec struct {
	index     string   // 索引列
	layouts   []string // 索引日期格式
	usecols   []string // 需要的列，nil 表示全部
	numeric   bool     // 所有值必须是数值
	normalize bool     // 价格列名归一化
}

// readFrame 读取按日期索引的CSV
func readFrame(path string, spec frameSpec) (*types.Frame, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	names := headerNames(f.header, spec.normalize)
	colIndex := parseHeader(names)

	idx, ok := colIndex[spec.index]
	if !ok {
		return nil, f.errorf(-1, "missing index column %q", spec.index)
	}

	// 确定要读取的列及其顺序
	columns := spec.usecols
	if columns == nil {
		for i, name := range names {
			if i != idx && colIndex[name] == i {
				columns = append(columns, name)
			}
		}
	}
	positions := make([]int, len(columns))
	for i, name := range columns {
		p, ok := colIndex[name]
		if !ok {
			return nil, f.errorf(-1, "usecols do not match columns, missing %q", name)
		}
		positions[i] = p
	}

	frame := types.NewBuilder(columns...)
	for i, row := range f.records {
		t, err := parseDate(row[idx], spec.layouts...)
		if err != nil {
			return nil, f.errorf(i, "%v", err)
		}
		values := make([]types.Value, len(positions))
		for c, p := range positions {
			v, err := parseCell(row[p], spec.numeric)
			if err != nil {
				return nil, f.errorf(i, "column %q: %v", columns[c], err)
			}
			values[c] = v
		}
		frame.Append(t, values...)
	}
	return frame.Build(), nil
}

// parseCell 解析单元格
func parseCell(s string, numeric bool) (types.Value, error) {
	if !numeric {
		return types.ParseValue(s), nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return types.NA(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.NA(), fmt.Errorf("invalid number %q", s)
	}
	return types.Number(f), nil
}

// readQuarterFrame 读取按 (Year, Quarter) 索引的CSV
//
// dateColumn 非空且存在时解析为报告日期。
func readQuarterFrame(path string, dateColumn string) (*types.QuarterFrame, error) {
	f, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	names := headerNames(f.header, false)
	colIndex := parseHeader(names)
	yi, ok := colIndex[types.YearColumn]
	if !ok {
		return nil, f.errorf(-1, "missing index column %q", types.YearColumn)
	}
	qi, ok := colIndex[types.QuarterColumn]
	if !ok {
		return nil, f.errorf(-1, "missing index column %q", types.QuarterColumn)
	}
	di, hasDate := colIndex[dateColumn]
	hasDate = hasDate && dateColumn != ""

	var columns []string
	var positions []int
	for i, name := range names {
		if i == yi || i == qi || (hasDate && i == di) || colIndex[name] != i {
			continue
		}
		columns = append(columns, name)
		positions = append(positions, i)
	}

	frame := types.NewQuarterBuilder(columns...)
	if hasDate {
		frame.EnableReportDates()
	}
	for i, row := range f.records {
		year, err := parseInt(row[yi])
		if err != nil {
			return nil, f.errorf(i, "column %q: %v", types.YearColumn, err)
		}
		quarter, err := parseInt(row[qi])
		if err != nil {
			return nil, f.errorf(i, "column %q: %v", types.QuarterColumn, err)
		}
		key := types.QuarterKey{Year: year, Quarter: quarter}

		values := make([]types.Value, len(positions))
		for c, p := range positions {
			values[c] = types.ParseValue(row[p])
		}
		if err := frame.Append(key, values...); err != nil {
			return nil, f.errorf(i, "%w", err)
		}

		if !hasDate {
			continue
		}
		if strings.TrimSpace(row[di]) == "" {
			continue
		}
		on, err := parseDate(row[di], DateLayout)
		if err != nil {
			return nil, f.errorf(i, "column %q: %v", dateColumn, err)
		}
		if err := frame.SetReportDate(key, on); err != nil {
			return nil, f.errorf(i, "%v", err)
		}
	}
	return frame.Build(), nil
}

// parseInt 解析整数，允许 "2020.0" 这样的写法
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}
