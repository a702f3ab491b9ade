package data

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// Resolver 在有序的交易所目录中查找标的数据文件
//
// 同一文件出现在多个交易所目录时，按目录顺序第一个命中的为准。
type Resolver struct {
	roots []string
}

// NewResolver 创建查找器，roots 为交易所目录，顺序即优先级
func NewResolver(roots ...string) *Resolver {
	return &Resolver{roots: slices.Clone(roots)}
}

// Roots 返回交易所目录
func (r *Resolver) Roots() []string { return slices.Clone(r.roots) }

// Location 已定位的数据文件
type Location struct {
	Exchange string // 交易所目录名
	Path     string
}

func (r *Resolver) path(root, symbol string, kind types.Kind) string {
	return filepath.Join(root, symbol, string(kind)+".csv")
}

// Resolve 返回第一个存在的 {root}/{symbol}/{kind}.csv
func (r *Resolver) Resolve(symbol string, kind types.Kind) (Location, bool) {
	for _, root := range r.roots {
		p := r.path(root, symbol, kind)
		if isFile(p) {
			return Location{Exchange: filepath.Base(root), Path: p}, true
		}
	}
	return Location{}, false
}

// Candidates 按目录顺序返回所有命中的文件，用于发现存储歧义
func (r *Resolver) Candidates(symbol string, kind types.Kind) []Location {
	var out []Location
	for _, root := range r.roots {
		p := r.path(root, symbol, kind)
		if isFile(p) {
			out = append(out, Location{Exchange: filepath.Base(root), Path: p})
		}
	}
	return out
}

// sibling 同一交易所目录下同一标的的另一类文件
func (r *Resolver) sibling(loc Location, kind types.Kind) (Location, bool) {
	p := filepath.Join(filepath.Dir(loc.Path), string(kind)+".csv")
	if isFile(p) {
		return Location{Exchange: loc.Exchange, Path: p}, true
	}
	return Location{}, false
}

// DiscoverExchanges 列出数据目录下的子目录，按名称排序
//
// 仅在配置没有给出交易所列表时使用。
func DiscoverExchanges(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}
	var roots []string
	for _, e := range entries {
		if e.IsDir() {
			roots = append(roots, filepath.Join(dataDir, e.Name()))
		}
	}
	// os.ReadDir 已按文件名排序
	return roots, nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
