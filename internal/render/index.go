package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// StatusFile signals the in-flight state as a marker file the index page
// (or anything polling the output directory) can observe. It implements
// dashboard.LoadingIndicator.
type StatusFile struct {
	path   string
	logger *zap.Logger
}

// NewStatusFile builds an indicator backed by <dir>/.loading.
func NewStatusFile(dir string, logger *zap.Logger) *StatusFile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusFile{path: filepath.Join(dir, ".loading"), logger: logger.Named("render")}
}

// Show creates the marker file.
func (s *StatusFile) Show() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("failed to create output directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, []byte("loading\n"), 0644); err != nil {
		s.logger.Warn("failed to write loading marker", zap.Error(err))
	}
}

// Hide removes it.
func (s *StatusFile) Hide() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove loading marker", zap.Error(err))
	}
}

// Visible reports whether the marker file exists.
func (s *StatusFile) Visible() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// WriteIndex writes the dashboard landing page linking the map and the
// visible chart panels. Hidden panels are omitted entirely.
func WriteIndex(dir, year string, panels []*PiePanel) error {
	type panelView struct {
		Name  string
		Image string
	}
	var visible []panelView
	for _, p := range panels {
		if p.Visible() {
			visible = append(visible, panelView{Name: p.Name(), Image: p.Name() + ".png"})
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index page: %w", err)
	}
	defer f.Close()

	return indexTemplate.Execute(f, map[string]interface{}{
		"Year":   year,
		"Panels": visible,
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Use of Force Dashboard{{if .Year}} — {{.Year}}{{end}}</title>
  <style>
    body { font-family: sans-serif; margin: 1em; }
    iframe { width: 100%; height: 480px; border: 1px solid #ccc; }
    .charts { display: flex; gap: 1em; flex-wrap: wrap; }
  </style>
</head>
<body>
  <h1>Use of Force{{if .Year}} — {{.Year}}{{end}}</h1>
  <iframe src="map.html"></iframe>
  <div class="charts">
  {{range .Panels}}
    <figure>
      <img src="{{.Image}}" alt="cases by {{.Name}}">
      <figcaption>By {{.Name}}</figcaption>
    </figure>
  {{end}}
  </div>
</body>
</html>
`))
