package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeConfig(t, "config.yaml", `
data:
  dir: /srv/vn
  exchanges: [HOSE, HNX, /mnt/UPCOM]
  tradable_threshold: "1e9"
benchmark:
  file: index/Price.csv
  aliases:
    SPY: VN30
daily:
  start_date: "2019-01-01"
backtest:
  start_date: "2020-01-01"
  end_date: "2020-12-31"
  symbols: [AAA, BBB]
logging:
  level: debug
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	roots, err := cfg.GetExchangeRoots()
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/vn/HOSE", "/srv/vn/HNX", "/mnt/UPCOM"}, roots)

	threshold, err := cfg.GetTradableThreshold()
	require.NoError(t, err)
	assert.True(t, threshold.Equal(decimal.NewFromInt(1_000_000_000)))

	assert.Equal(t, "/srv/vn/index/Price.csv", cfg.GetBenchmarkFile())
	assert.Equal(t, "/srv/vn/VNX.csv", cfg.GetUniversePath())
	assert.Equal(t, "VN30", cfg.Benchmark.Aliases["SPY"])
	assert.Equal(t, "2019-01-01", cfg.GetStartDate())
	assert.Equal(t, "debug", cfg.GetLogLevel())

	bt, err := cfg.ToBacktestConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), bt.StartDate)
	assert.Equal(t, time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), bt.EndDate)
	assert.Equal(t, []string{"AAA", "BBB"}, bt.Symbols)
	assert.Equal(t, "SPY", bt.Benchmark)
}

func TestLoadConfigTOML(t *testing.T) {
	p := writeConfig(t, "config.toml", `
[data]
dir = "/srv/vn"
exchanges = ["HNX", "HOSE"]

[backtest]
benchmark = "VNINDEX"

[logging]
level = "warn"
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	roots, err := cfg.GetExchangeRoots()
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/vn/HNX", "/srv/vn/HOSE"}, roots)
	assert.Equal(t, "warn", cfg.GetLogLevel())

	bt, err := cfg.ToBacktestConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "VNINDEX", bt.Benchmark)
	assert.True(t, bt.StartDate.IsZero())
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ".", cfg.GetDataDir())
	assert.Equal(t, "2018-01-01", cfg.GetStartDate())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, filepath.Join("VN30F", "vnindex", "Price.csv"), cfg.GetBenchmarkFile())

	threshold, err := cfg.GetTradableThreshold()
	require.NoError(t, err)
	assert.True(t, threshold.Equal(decimal.NewFromInt(800_000_000)))
}

func TestDiscoveredExchanges(t *testing.T) {
	dir := t.TempDir()
	for _, ex := range []string{"UPCOM", "HOSE", "HNX"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ex), 0o755))
	}
	cfg := Default()
	cfg.Data.Dir = dir

	roots, err := cfg.GetExchangeRoots()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "HNX"), filepath.Join(dir, "HOSE"), filepath.Join(dir, "UPCOM")}, roots)
}

type staticReturns struct{}

func (staticReturns) BenchmarkReturns(symbol string) (*types.ReturnSeries, error) {
	return &types.ReturnSeries{Symbol: symbol}, nil
}

func TestToBacktestConfigInjectsSource(t *testing.T) {
	bt, err := Default().ToBacktestConfig(staticReturns{})
	require.NoError(t, err)
	require.NotNil(t, bt.BenchmarkReturns)

	series, err := bt.BenchmarkReturns.BenchmarkReturns(bt.Benchmark)
	require.NoError(t, err)
	assert.Equal(t, "SPY", series.Symbol)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad start date", "c.yaml", "daily:\n  start_date: 2019/01/01\n"},
		{"bad backtest date", "c.yaml", "backtest:\n  end_date: tomorrow\n"},
		{"bad threshold", "c.yaml", "data:\n  tradable_threshold: lots\n"},
		{"duplicate exchange", "c.yaml", "data:\n  exchanges: [HOSE, HOSE]\n"},
		{"empty exchange", "c.toml", "[data]\nexchanges = [\"\"]\n"},
		{"bad log level", "c.yaml", "logging:\n  level: loud\n"},
		{"bad yaml", "c.yaml", "data: [\n"},
		{"bad toml", "c.toml", "[data\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
