package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"forcemap/internal/dashboard"
)

// LeafletMap writes the marker layer as a static Leaflet page with
// clustered markers. It implements dashboard.MapLayer; Replace rewrites the
// whole page, Clear rewrites it with an empty layer.
type LeafletMap struct {
	dir     string
	tileURL string
	logger  *zap.Logger
}

// NewLeafletMap builds a map writer targeting <dir>/map.html. The {token}
// placeholder in tileURL is substituted with token.
func NewLeafletMap(dir, tileURL, token string, logger *zap.Logger) *LeafletMap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeafletMap{
		dir:     dir,
		tileURL: strings.ReplaceAll(tileURL, "{token}", token),
		logger:  logger.Named("render"),
	}
}

// Path returns the page the map renders to.
func (m *LeafletMap) Path() string {
	return filepath.Join(m.dir, "map.html")
}

// Replace swaps the marker layer wholesale.
func (m *LeafletMap) Replace(markers []dashboard.Marker) error {
	return m.write(markers)
}

// Clear removes every marker.
func (m *LeafletMap) Clear() error {
	return m.write(nil)
}

type markerJSON struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Popup string  `json:"popup"`
}

func (m *LeafletMap) write(markers []dashboard.Marker) error {
	points := make([]markerJSON, 0, len(markers))
	for _, mk := range markers {
		points = append(points, markerJSON{Lat: mk.Latitude, Lng: mk.Longitude, Popup: mk.Popup})
	}
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal markers: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(m.Path())
	if err != nil {
		return fmt.Errorf("failed to create map page: %w", err)
	}
	defer f.Close()

	err = mapTemplate.Execute(f, map[string]interface{}{
		"TileURL": m.tileURL,
		"Markers": template.JS(data),
	})
	if err != nil {
		return fmt.Errorf("failed to render map page: %w", err)
	}
	m.logger.Debug("wrote map page", zap.String("path", m.Path()), zap.Int("markers", len(markers)))
	return nil
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Use of Force Map</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
  <link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
  <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
  <div id="map"></div>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
  <script>
    var points = {{.Markers}};
    var map = L.map("map");
    L.tileLayer({{.TileURL}}, {maxZoom: 18}).addTo(map);
    var cluster = L.markerClusterGroup();
    points.forEach(function (p) {
      cluster.addLayer(L.marker([p.lat, p.lng]).bindPopup(p.popup));
    });
    map.addLayer(cluster);
    if (points.length > 0) {
      map.fitBounds(cluster.getBounds());
    } else {
      map.setView([44.9778, -93.2650], 12);
    }
  </script>
</body>
</html>
`))
