// Package render provides the concrete rendering services behind the
// dashboard: PNG pie charts via go-chart and a Leaflet marker map written
// as a static HTML page.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"forcemap/internal/aggregate"
	"forcemap/internal/dashboard"
)

// PiePanel renders one dimension's tally as a PNG pie chart in the output
// directory. It implements dashboard.ChartPanel.
type PiePanel struct {
	name    string
	dir     string
	width   int
	height  int
	visible bool
	logger  *zap.Logger
}

// NewPiePanel builds a hidden panel writing <dir>/<name>.png.
func NewPiePanel(name, dir string, width, height int, logger *zap.Logger) *PiePanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 512
	}
	return &PiePanel{
		name:   name,
		dir:    dir,
		width:  width,
		height: height,
		logger: logger.Named("render"),
	}
}

// Name returns the panel's dimension name.
func (p *PiePanel) Name() string { return p.name }

// Visible reports whether the panel's container is shown.
func (p *PiePanel) Visible() bool { return p.visible }

// Show marks the container visible.
func (p *PiePanel) Show() { p.visible = true }

// Hide marks the container hidden.
func (p *PiePanel) Hide() { p.visible = false }

// ImagePath returns the path the panel renders to.
func (p *PiePanel) ImagePath() string {
	return filepath.Join(p.dir, p.name+".png")
}

// Render draws the tally and returns a handle whose Dispose removes the
// image. Rendering an empty tally is a caller error.
func (p *PiePanel) Render(t aggregate.Tally) (dashboard.ChartInstance, error) {
	if !t.HasData() {
		return nil, fmt.Errorf("refusing to render empty %s tally", t.Dimension)
	}

	values := make([]chart.Value, 0, len(t.Entries))
	for _, e := range t.Entries {
		values = append(values, chart.Value{
			Value: float64(e.Count),
			Label: fmt.Sprintf("%s (%d)", e.Value, e.Count),
		})
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Cases by %s", t.Dimension),
		Width:  p.width,
		Height: p.height,
		Values: values,
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := p.ImagePath()
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := pie.Render(chart.PNG, f); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", t.Dimension, err)
	}
	p.logger.Debug("rendered pie chart", zap.String("path", path), zap.Int("slices", len(values)))

	return &pieInstance{path: path}, nil
}

// pieInstance is one rendered chart file.
type pieInstance struct {
	path string
}

// Dispose deletes the rendered image. A missing file is fine; the instance
// may have been superseded by a re-render to the same path.
func (i *pieInstance) Dispose() error {
	if err := os.Remove(i.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
