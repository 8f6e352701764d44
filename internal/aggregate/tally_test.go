package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"forcemap/internal/model"
)

func caseWithSubject(race, sex string) model.CaseWrapper {
	return model.CaseWrapper{Case: model.Case{
		Force: &model.Force{
			Type:    "Bodily Force",
			Subject: &model.Subject{Race: race, Sex: sex},
		},
	}}
}

func TestTallyByFirstSeenOrder(t *testing.T) {
	records := []model.CaseWrapper{
		caseWithSubject("White", "Male"),
		caseWithSubject("Black", "Male"),
		caseWithSubject("White", "Female"),
	}

	got := TallyBy(records, DimensionRace)
	want := Tally{
		Dimension: DimensionRace,
		Entries: []Entry{
			{Value: "White", Count: 2},
			{Value: "Black", Count: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("race tally mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.HasData())
	assert.Equal(t, 3, got.Total())
}

func TestTallyBySkipsBrokenChainOnly(t *testing.T) {
	// A record with a missing force or subject link must not abort the
	// scan; only that record is skipped.
	records := []model.CaseWrapper{
		caseWithSubject("Asian", "Male"),
		{Case: model.Case{Force: nil}},
		{Case: model.Case{Force: &model.Force{Type: "Taser", Subject: nil}}},
		caseWithSubject("Asian", "Female"),
	}

	got := TallyBy(records, DimensionRace)
	want := Tally{
		Dimension: DimensionRace,
		Entries:   []Entry{{Value: "Asian", Count: 2}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyByIgnoresEmptyValues(t *testing.T) {
	records := []model.CaseWrapper{
		caseWithSubject("", "Male"),
		caseWithSubject("White", ""),
	}

	race := TallyBy(records, DimensionRace)
	assert.Equal(t, []Entry{{Value: "White", Count: 1}}, race.Entries)

	sex := TallyBy(records, DimensionSex)
	assert.Equal(t, []Entry{{Value: "Male", Count: 1}}, sex.Entries)
}

func TestTallyByNoForceDataSignalsNoData(t *testing.T) {
	records := []model.CaseWrapper{
		{Case: model.Case{Problem: "Traffic Stop"}},
		{Case: model.Case{Problem: "Welfare Check"}},
	}

	for _, dim := range Dimensions {
		tally := TallyBy(records, dim)
		assert.False(t, tally.HasData(), "dimension %s should have no data", dim)
		assert.Empty(t, tally.Entries)
	}
}

func TestTallyByEmptyInput(t *testing.T) {
	tally := TallyBy(nil, DimensionSex)
	assert.False(t, tally.HasData())
	assert.Equal(t, 0, tally.Total())
}

func TestTallyTotalMatchesValidRecords(t *testing.T) {
	// Sum of counts must equal the number of records with a full chain and
	// a non-empty value for the dimension.
	records := []model.CaseWrapper{
		caseWithSubject("White", "Male"),
		caseWithSubject("Black", ""),
		{Case: model.Case{}},
		caseWithSubject("Native American", "Female"),
	}

	assert.Equal(t, 3, TallyBy(records, DimensionRace).Total())
	assert.Equal(t, 2, TallyBy(records, DimensionSex).Total())
}

func TestTallyAllCoversEveryDimension(t *testing.T) {
	records := []model.CaseWrapper{caseWithSubject("White", "Male")}

	all := TallyAll(records)
	assert.Len(t, all, len(Dimensions))
	for _, dim := range Dimensions {
		assert.Equal(t, dim, all[dim].Dimension)
		assert.True(t, all[dim].HasData())
	}
}
