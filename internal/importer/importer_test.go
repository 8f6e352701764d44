package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forcemap/internal/store"
)

const sampleCSV = `id,date,problem,latitude,longitude,precinct,neighborhood,force_category,subject_id,subject_race,subject_sex,subject_age
c1,2016-05-14T20:30:00Z,Suspicious Person,44.999,-93.298,4,Jordan,Bodily Force,s1,White,Male,31
c2,2016-06-01T10:00:00Z,Assault,44.97,-93.26,1,Downtown West,Taser,s2,Black,Male,24
,2017-01-02T08:00:00Z,Welfare Check,44.95,-93.30,5,Whittier,,,,,
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, nil), st
}

func TestImportFile(t *testing.T) {
	imp, st := newTestImporter(t)

	res, err := imp.ImportFile(context.Background(), writeCSV(t, sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 0, res.Skipped)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats["cases"])
	assert.Equal(t, 2, stats["force_actions"])
	assert.Equal(t, 2, stats["subjects"])

	years, err := st.AvailableYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2016", "2017"}, years)
}

func TestImportAssignsIDs(t *testing.T) {
	imp, st := newTestImporter(t)

	_, err := imp.ImportFile(context.Background(), writeCSV(t, sampleCSV))
	require.NoError(t, err)

	// The third row had no ID; it must still land with a generated one.
	wrappers, err := st.CasesByYear(context.Background(), "2017")
	require.NoError(t, err)
	require.Len(t, wrappers, 1)
	assert.Nil(t, wrappers[0].Case.Force)
}

func TestImportSkipsBadRows(t *testing.T) {
	imp, _ := newTestImporter(t)

	csv := `id,date,problem,latitude,longitude
ok,2016-01-01T00:00:00Z,Fine,44.9,-93.2
bad-lat,2016-01-01T00:00:00Z,Nope,not-a-number,-93.2
no-date,,Nope,44.9,-93.2
`
	res, err := imp.ImportFile(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
}

func TestImportRejectsMissingHeader(t *testing.T) {
	imp, _ := newTestImporter(t)

	_, err := imp.ImportFile(context.Background(), writeCSV(t, "id,problem\nx,y\n"))
	assert.ErrorContains(t, err, "required column")
}

func TestReimportSkipsDuplicates(t *testing.T) {
	imp, st := newTestImporter(t)
	path := writeCSV(t, sampleCSV)
	ctx := context.Background()

	_, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)

	res, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	// Rows with explicit IDs collide; the ID-less row gets a fresh UUID and
	// imports again.
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Imported)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats["cases"])
}

func TestImportMissingFile(t *testing.T) {
	imp, _ := newTestImporter(t)

	_, err := imp.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
