// Package aggregate derives per-category tallies from raw case records.
//
// Tallies are computed from scratch for every year selection; nothing is
// cached between calls.
package aggregate

import "forcemap/internal/model"

// Dimension names a subject attribute cases are tallied by.
type Dimension string

const (
	DimensionRace Dimension = "race"
	DimensionSex  Dimension = "sex"
)

// Dimensions lists every chart dimension the dashboard renders, in display
// order.
var Dimensions = []Dimension{DimensionRace, DimensionSex}

// Entry is one category value and its occurrence count.
type Entry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Tally is the aggregation result for one dimension. Entries are in
// first-seen order over the scanned records. A Tally with no entries means
// no record carried usable data for the dimension; callers check HasData
// rather than catching an error.
type Tally struct {
	Dimension Dimension `json:"dimension"`
	Entries   []Entry   `json:"entries"`
}

// HasData reports whether any record contributed to the tally.
func (t Tally) HasData() bool {
	return len(t.Entries) > 0
}

// Total returns the sum of all entry counts.
func (t Tally) Total() int {
	n := 0
	for _, e := range t.Entries {
		n += e.Count
	}
	return n
}

// field extracts the dimension's value from a subject.
func (d Dimension) field(sub *model.Subject) string {
	switch d {
	case DimensionRace:
		return sub.Race
	case DimensionSex:
		return sub.Sex
	default:
		return ""
	}
}

// TallyBy counts records per value of the given dimension. A record missing
// its force action or subject is skipped; the scan continues with the next
// record. Records whose field value is empty are likewise ignored.
func TallyBy(records []model.CaseWrapper, dim Dimension) Tally {
	counts := make(map[string]int)
	var order []string

	for _, w := range records {
		force := w.Case.Force
		if force == nil || force.Subject == nil {
			continue
		}
		value := dim.field(force.Subject)
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	t := Tally{Dimension: dim}
	for _, value := range order {
		t.Entries = append(t.Entries, Entry{Value: value, Count: counts[value]})
	}
	return t
}

// TallyAll computes one tally per dashboard dimension.
func TallyAll(records []model.CaseWrapper) map[Dimension]Tally {
	out := make(map[Dimension]Tally, len(Dimensions))
	for _, dim := range Dimensions {
		out[dim] = TallyBy(records, dim)
	}
	return out
}
