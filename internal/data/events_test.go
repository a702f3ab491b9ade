package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/vnmarket/pkg/types"
)

const events = `disclosuredDate,eventName,value
2020-03-10,dividend,500
2020-01-15,AGM,
2020-03-10,stock split,2
2020-06-01,dividend,700
`

func TestLoadEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "HOSE/AAA/Events.csv", events)
	loader := NewLoader(NewResolver(filepath.Join(dir, "HOSE")))

	found, err := loader.LoadEvents("AAA", types.Range{})
	require.NoError(t, err)
	ev, ok := found.Get()
	require.True(t, ok)

	assert.Equal(t, []string{"eventName", "value"}, ev.Columns())
	// 同日事件全部保留，保持文件顺序
	assert.Equal(t, []string{"2020-01-15", "2020-03-10", "2020-03-10", "2020-06-01"}, dates(ev))
	assert.Equal(t, "dividend", ev.At(1, "eventName").String())
	assert.Equal(t, "stock split", ev.At(2, "eventName").String())
	assert.True(t, ev.At(0, "value").IsNA())
	assert.Equal(t, 500.0, ev.At(1, "value").Float64())
}

func TestLoadEventsRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "HOSE/AAA/Events.csv", events)
	loader := NewLoader(NewResolver(filepath.Join(dir, "HOSE")))

	found, err := loader.LoadEvents("AAA", types.Range{From: day("2020-03-10"), To: day("2020-03-10")})
	require.NoError(t, err)
	ev, _ := found.Get()
	assert.Equal(t, 2, ev.Len())

	found, err = loader.LoadEvents("BBB", types.Range{})
	require.NoError(t, err)
	assert.False(t, found.Present())
}

func TestLoadEventsMissingIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "HOSE/AAA/Events.csv", "date,eventName\n2020-01-01,AGM\n")
	loader := NewLoader(NewResolver(filepath.Join(dir, "HOSE")))

	_, err := loader.LoadEvents("AAA", types.Range{})
	assert.ErrorIs(t, err, ErrParse)
}
