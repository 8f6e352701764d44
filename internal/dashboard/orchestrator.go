// Package dashboard coordinates loading state, map markers, and chart
// lifecycle in response to year selections.
package dashboard

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"forcemap/internal/aggregate"
	"forcemap/internal/model"
)

// State is the coarse view state.
type State int

const (
	// StateIdle means no year is selected; charts and markers are hidden.
	StateIdle State = iota
	// StateLoading means a fetch is in flight; prior visuals are gone and
	// the loading indicator is visible.
	StateLoading
	// StatePopulated means charts and markers for the selected year are
	// rendered.
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// YearNone is the sentinel "no selection" value. Applying it clears the
// view without a fetch.
const YearNone = ""

// Marker is one map point with its popup HTML.
type Marker struct {
	Latitude  float64
	Longitude float64
	Popup     string
}

// CaseSource supplies raw case records for a year.
type CaseSource interface {
	CasesForYear(ctx context.Context, year string) ([]model.CaseWrapper, error)
}

// MapLayer renders clustered markers. Replace swaps the whole layer; there
// is no incremental diffing.
type MapLayer interface {
	Replace(markers []Marker) error
	Clear() error
}

// ChartInstance is one rendered chart; Dispose releases its resources.
type ChartInstance interface {
	Dispose() error
}

// ChartPanel is the container for one dimension's chart.
type ChartPanel interface {
	Render(t aggregate.Tally) (ChartInstance, error)
	Show()
	Hide()
}

// LoadingIndicator toggles the in-flight marker.
type LoadingIndicator interface {
	Show()
	Hide()
}

// Orchestrator owns the view state. It is not safe for concurrent use; it
// expects to be driven from a single event loop, and it does not sequence
// or cancel overlapping Apply calls — the last one to finish wins.
type Orchestrator struct {
	source    CaseSource
	mapLayer  MapLayer
	panels    map[aggregate.Dimension]ChartPanel
	indicator LoadingIndicator
	logger    *zap.Logger

	state  State
	year   string
	charts []ChartInstance
}

// New builds an orchestrator in the Idle state.
func New(source CaseSource, mapLayer MapLayer, panels map[aggregate.Dimension]ChartPanel,
	indicator LoadingIndicator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		source:    source,
		mapLayer:  mapLayer,
		panels:    panels,
		indicator: indicator,
		logger:    logger.Named("dashboard"),
		state:     StateIdle,
	}
}

// State returns the current view state.
func (o *Orchestrator) State() State { return o.state }

// Year returns the currently applied year, or YearNone.
func (o *Orchestrator) Year() string { return o.year }

// LiveCharts returns the number of chart instances not yet disposed.
func (o *Orchestrator) LiveCharts() int { return len(o.charts) }

// Apply submits a year selection. The sentinel YearNone clears the view
// without fetching. A fetch or render failure leaves the orchestrator in
// StateLoading with the indicator visible; the error is returned for the
// caller to log.
func (o *Orchestrator) Apply(ctx context.Context, year string) error {
	if year == YearNone {
		o.logger.Debug("selection cleared")
		o.clear()
		return nil
	}

	o.enterLoading()
	o.logger.Info("loading year", zap.String("year", year))

	records, err := o.source.CasesForYear(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to fetch cases for %s: %w", year, err)
	}

	if err := o.mapLayer.Replace(buildMarkers(records)); err != nil {
		return fmt.Errorf("failed to place markers: %w", err)
	}

	for _, dim := range aggregate.Dimensions {
		panel, ok := o.panels[dim]
		if !ok {
			continue
		}
		tally := aggregate.TallyBy(records, dim)
		if !tally.HasData() {
			o.logger.Debug("no data for dimension", zap.String("dimension", string(dim)))
			panel.Hide()
			continue
		}
		instance, err := panel.Render(tally)
		if err != nil {
			return fmt.Errorf("failed to render %s chart: %w", dim, err)
		}
		o.charts = append(o.charts, instance)
		panel.Show()
	}

	o.indicator.Hide()
	o.state = StatePopulated
	o.year = year
	o.logger.Info("populated", zap.String("year", year), zap.Int("cases", len(records)))
	return nil
}

// enterLoading disposes prior charts and removes the prior marker layer.
func (o *Orchestrator) enterLoading() {
	o.indicator.Show()
	o.disposeCharts()
	if err := o.mapLayer.Clear(); err != nil {
		o.logger.Warn("failed to clear map layer", zap.Error(err))
	}
	o.state = StateLoading
	o.year = YearNone
}

// clear returns the view to Idle: nothing visible, nothing live.
func (o *Orchestrator) clear() {
	o.disposeCharts()
	for _, panel := range o.panels {
		panel.Hide()
	}
	if err := o.mapLayer.Clear(); err != nil {
		o.logger.Warn("failed to clear map layer", zap.Error(err))
	}
	o.indicator.Hide()
	o.state = StateIdle
	o.year = YearNone
}

func (o *Orchestrator) disposeCharts() {
	for _, c := range o.charts {
		if err := c.Dispose(); err != nil {
			o.logger.Warn("failed to dispose chart", zap.Error(err))
		}
	}
	o.charts = nil
}

// buildMarkers converts case records to map markers with escaped popup HTML.
func buildMarkers(records []model.CaseWrapper) []Marker {
	markers := make([]Marker, 0, len(records))
	for _, w := range records {
		c := w.Case
		popup := fmt.Sprintf("<strong>%s</strong><br>%s",
			html.EscapeString(c.Problem), html.EscapeString(c.Date))
		markers = append(markers, Marker{
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Popup:     popup,
		})
	}
	return markers
}
