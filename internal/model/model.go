// Package model defines the wire-level case records shared by the REST
// server, the HTTP client, and the aggregation layer.
package model

// CaseWrapper is the envelope the year endpoint returns one of per case.
type CaseWrapper struct {
	Case Case `json:"case"`
}

// Case is a single recorded use-of-force incident.
// Force is nil when no force-action record is linked to the case.
type Case struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Date         string  `json:"date"`
	Problem      string  `json:"problem"`
	Precinct     string  `json:"precinct,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	Force        *Force  `json:"force"`
}

// Force records the type of force applied in a case.
// Subject is nil when the action has no linked subject record.
type Force struct {
	Type    string   `json:"type"`
	Subject *Subject `json:"subject"`
}

// Subject holds the demographic attributes of the person involved.
type Subject struct {
	Race string `json:"race"`
	Sex  string `json:"sex"`
	Age  int    `json:"age"`
}

// YearCatalog is the payload of the year-listing endpoint.
type YearCatalog struct {
	AvailableYears []string `json:"availableYears"`
}
