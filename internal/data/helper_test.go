package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

// writeFile 在 dir 下写入测试文件，自动创建目录
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dates(f *types.Frame) []string {
	out := make([]string, f.Len())
	for i := range out {
		out[i] = f.Time(i).Format(DateLayout)
	}
	return out
}

const aaaPrice = `date,open,high,low,close,volume
2020-01-01,1,1.5,0.5,1,100
2020-01-02,2,2.5,1.5,2,200
2020-01-03,3,3.5,2.5,3,300
2020-01-04,4,4.5,3.5,4,400
2020-01-05,5,5.5,4.5,5,500
`

const bbbPrice = `date,open,high,low,close,volume
2020-01-02,10,11,9,10,1000
2020-01-03,20,21,19,20,2000
`

// newTestLoader 创建 HOSE、HNX 两个交易所目录
func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "HOSE/AAA/Price.csv", aaaPrice)
	writeFile(t, dir, "HNX/BBB/Price.csv", bbbPrice)
	loader := NewLoader(NewResolver(filepath.Join(dir, "HOSE"), filepath.Join(dir, "HNX")))
	return loader, dir
}
