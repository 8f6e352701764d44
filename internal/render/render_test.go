package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forcemap/internal/aggregate"
	"forcemap/internal/dashboard"
)

func TestPiePanelRenderAndDispose(t *testing.T) {
	dir := t.TempDir()
	panel := NewPiePanel("race", dir, 256, 256, nil)

	tally := aggregate.Tally{
		Dimension: aggregate.DimensionRace,
		Entries: []aggregate.Entry{
			{Value: "White", Count: 2},
			{Value: "Black", Count: 1},
		},
	}

	instance, err := panel.Render(tally)
	require.NoError(t, err)

	path := panel.ImagePath()
	info, err := os.Stat(path)
	require.NoError(t, err, "chart PNG should exist")
	assert.Greater(t, info.Size(), int64(0))

	require.NoError(t, instance.Dispose())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "dispose should remove the PNG")

	// Dispose is idempotent.
	assert.NoError(t, instance.Dispose())
}

func TestPiePanelRejectsEmptyTally(t *testing.T) {
	panel := NewPiePanel("sex", t.TempDir(), 0, 0, nil)

	_, err := panel.Render(aggregate.Tally{Dimension: aggregate.DimensionSex})
	assert.Error(t, err)
}

func TestPiePanelVisibility(t *testing.T) {
	panel := NewPiePanel("race", t.TempDir(), 256, 256, nil)

	assert.False(t, panel.Visible())
	panel.Show()
	assert.True(t, panel.Visible())
	panel.Hide()
	assert.False(t, panel.Visible())
}

func TestLeafletMapReplaceAndClear(t *testing.T) {
	dir := t.TempDir()
	m := NewLeafletMap(dir, "https://tiles.example/{z}/{x}/{y}?access_token={token}", "pk.test", nil)

	markers := []dashboard.Marker{
		{Latitude: 44.9778, Longitude: -93.265, Popup: "<strong>Disturbance</strong>"},
		{Latitude: 44.95, Longitude: -93.3, Popup: "<strong>Assault</strong>"},
	}
	require.NoError(t, m.Replace(markers))

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "44.9778")
	assert.Contains(t, page, "Disturbance")
	assert.Contains(t, page, "pk.test", "tile token should be substituted")
	assert.NotContains(t, page, "{token}")
	assert.Contains(t, page, "markerClusterGroup")

	require.NoError(t, m.Clear())
	data, err = os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "44.9778", "cleared page keeps no markers")
}

func TestStatusFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStatusFile(dir, nil)

	assert.False(t, s.Visible())
	s.Show()
	assert.True(t, s.Visible())
	s.Hide()
	assert.False(t, s.Visible())
	// Hiding twice is fine.
	s.Hide()
}

func TestWriteIndexOmitsHiddenPanels(t *testing.T) {
	dir := t.TempDir()
	race := NewPiePanel("race", dir, 256, 256, nil)
	sex := NewPiePanel("sex", dir, 256, 256, nil)
	race.Show()

	require.NoError(t, WriteIndex(dir, "2016", []*PiePanel{race, sex}))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "race.png")
	assert.NotContains(t, page, "sex.png")
	assert.Contains(t, page, "2016")
}
