package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// dataDir 两个交易所目录，AAA 同时出现在两个目录中
func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "HOSE/AAA/Price.csv", `date,open,high,low,close,volume
2020-01-01,1,1,1,1,10
2020-01-02,2,2,2,2,20
2020-01-03,3,3,3,3,30
2020-01-04,4,4,4,4,40
2020-01-05,5,5,5,5,50
`)
	writeFile(t, dir, "HNX/AAA/Price.csv", "date,open,high,low,close,volume\n2020-01-01,9,9,9,9,90\n")
	writeFile(t, dir, "HNX/BBB/Price.csv", "date,open,high,low,close,volume\n2020-01-02,10,10,10,10,1\n2020-01-03,20,20,20,20,1\n")
	writeFile(t, dir, "HOSE/VNINDEX/Price.csv", "date,open,high,low,close,volume\n2020-01-01,100,100,100,100,1\n2020-01-02,125,125,125,125,1\n")
	writeFile(t, dir, "HOSE/AAA/ICashFlowQuarter.csv", "Year,Quarter,NetCash\n2019,4,7\n")
	writeFile(t, dir, "HOSE/AAA/Report.csv", "Year,Quarter,date\n2019,4,2020-01-03\n")
	writeFile(t, dir, "VNX.csv", "ticker,AvgValue20P\nAAA,900000000\nBBB,800000000\nCCC,\n")
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPricesCommand(t *testing.T) {
	dir := dataDir(t)
	out, _, err := run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HOSE", "--exchange", "HNX",
		"prices", "AAA", "BBB", "ZZZ")
	require.NoError(t, err)
	assert.Equal(t, `date,AAA,BBB
2020-01-01,1,
2020-01-02,2,10
2020-01-03,3,20
2020-01-04,4,
2020-01-05,5,
`, out)
}

func TestPriceCommandExchangeOrder(t *testing.T) {
	dir := dataDir(t)

	out, _, err := run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HNX,HOSE",
		"price", "AAA", "--fields", "close")
	require.NoError(t, err)
	assert.Equal(t, "date,close\n2020-01-01,9\n", out)

	out, _, err = run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HOSE,HNX",
		"price", "AAA", "--fields", "close", "--start", "2020-01-04")
	require.NoError(t, err)
	assert.Equal(t, "date,close\n2020-01-04,4\n2020-01-05,5\n", out)
}

func TestPriceCommandNoData(t *testing.T) {
	dir := dataDir(t)
	out, logs, err := run(t, NewRootCommand(), "--data-dir", dir, "price", "ZZZ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, logs, "no price data")
}

func TestDiscoveredExchangesAreLogged(t *testing.T) {
	dir := dataDir(t)
	out, logs, err := run(t, NewRootCommand(), "--data-dir", dir, "price", "AAA", "--fields", "close", "--start", "2020-01-01")
	require.NoError(t, err)
	// 未配置交易所时按名称顺序查找，HNX 在 HOSE 之前
	assert.Equal(t, "date,close\n2020-01-01,9\n", out)
	assert.Contains(t, logs, "using discovered folders in name order")
	hnx := strings.Index(logs, filepath.Join(dir, "HNX"))
	hose := strings.Index(logs, filepath.Join(dir, "HOSE"))
	require.True(t, hnx >= 0 && hose >= 0, logs)
	assert.Less(t, hnx, hose)

	_, logs, err = run(t, NewRootCommand(), "--data-dir", dir, "--exchange", "HOSE", "price", "AAA")
	require.NoError(t, err)
	assert.NotContains(t, logs, "discovered folders")
}

func TestAlignCommand(t *testing.T) {
	dir := dataDir(t)
	out, _, err := run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HOSE",
		"align", "AAA", "CashFlowQuarter")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "date,open,high,low,close,volume,Year,Quarter,NetCash", lines[0])
	assert.Equal(t, "2020-01-02,2,2,2,2,20,,,", lines[2])
	assert.Equal(t, "2020-01-03,3,3,3,3,30,2019,4,7", lines[3])
	assert.Equal(t, "2020-01-05,5,5,5,5,50,2019,4,7", lines[5])
}

func TestFundamentalsCommand(t *testing.T) {
	dir := dataDir(t)
	out, _, err := run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HOSE",
		"fundamentals", "AAA", "CashFlowQuarter")
	require.NoError(t, err)
	assert.Equal(t, "Year,Quarter,NetCash,date\n2019,4,7,2020-01-03\n", out)
}

func TestUniverseCommand(t *testing.T) {
	dir := dataDir(t)
	out, _, err := run(t, NewRootCommand(), "--data-dir", dir, "universe", "--tradable")
	require.NoError(t, err)
	assert.Equal(t, "ticker,AvgValue20P\nAAA,900000000\n", out)
}

func TestBenchmarkCommand(t *testing.T) {
	dir := dataDir(t)
	out, _, err := run(t, NewRootCommand(), "--data-dir", dir, "--exchange", "HOSE", "benchmark")
	require.NoError(t, err)
	assert.Equal(t, "date,return\n2020-01-02T00:00:00Z,0.25\n", out)
}

func TestLocateCommand(t *testing.T) {
	dir := dataDir(t)
	out, logs, err := run(t, NewRootCommand(),
		"--data-dir", dir, "--exchange", "HOSE,HNX",
		"locate", "AAA", "Price")
	require.NoError(t, err)
	assert.Equal(t,
		"* HOSE\t"+filepath.Join(dir, "HOSE", "AAA", "Price.csv")+"\n"+
			"  HNX\t"+filepath.Join(dir, "HNX", "AAA", "Price.csv")+"\n", out)
	assert.Contains(t, logs, "ambiguous storage")

	_, _, err = run(t, NewRootCommand(), "--data-dir", dir, "locate", "AAA", "Quotes")
	assert.Error(t, err)
}

func TestDailyRootCommand(t *testing.T) {
	dir := dataDir(t)
	source := filepath.Join(dir, "HNX", "BBB", "Price.csv")
	bm := filepath.Join(dir, "HOSE", "AAA", "Price.csv")
	dest := filepath.Join(dir, "BBB-daily.csv")

	_, _, err := run(t, NewDailyRootCommand(), source, dest, "2020-01-01", "--benchmark", bm)
	require.NoError(t, err)
	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `date,open,high,low,close,volume
2020-01-01,10,10,10,10,1
2020-01-02,10,10,10,10,1
2020-01-03,20,20,20,20,1
2020-01-04,20,20,20,20,1
2020-01-05,20,20,20,20,1
`, string(raw))
}

func TestDailyCommandNothingWritten(t *testing.T) {
	dir := dataDir(t)
	source := filepath.Join(dir, "HNX", "BBB", "Price.csv")
	bm := filepath.Join(dir, "HOSE", "AAA", "Price.csv")
	dest := filepath.Join(dir, "BBB-daily.csv")

	_, logs, err := run(t, NewRootCommand(), "--data-dir", dir, "daily", source, dest, "2021-01-01", "--benchmark", bm)
	require.NoError(t, err)
	assert.Contains(t, logs, "nothing written")
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))

	_, _, err = run(t, NewDailyRootCommand(), source, dest)
	assert.Error(t, err)
	_, _, err = run(t, NewDailyRootCommand(), source, dest, "01/01/2020")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("2020-01-01", "2020-01-02", types.Minute)
	require.NoError(t, err)
	assert.True(t, r.Contains(time.Date(2020, 1, 2, 14, 45, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2020, 1, 3, 9, 0, 0, 0, time.UTC)))

	r, err = parseRange("", "", types.Daily)
	require.NoError(t, err)
	assert.Equal(t, types.Range{}, r)

	_, err = parseRange("2020-02-01", "2020-01-01", types.Daily)
	assert.Error(t, err)
	_, err = parseRange("2020/01/01", "", types.Daily)
	assert.Error(t, err)
}
