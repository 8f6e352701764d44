// Package importer loads case records from CSV into the store.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forcemap/internal/store"
)

// Importer parses CSV case exports and inserts them into the store.
type Importer struct {
	store  *store.Store
	logger *zap.Logger
}

// New builds an importer over the given store.
func New(st *store.Store, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: st, logger: logger.Named("importer")}
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// ImportFile imports the CSV at path. Rows that cannot be parsed or stored
// are skipped with a warning; only I/O and header problems abort the run.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res, err := i.importCSV(ctx, f)
	if err != nil {
		return res, fmt.Errorf("failed to import %s: %w", path, err)
	}
	i.logger.Info("import finished",
		zap.String("path", path),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// columns maps the header names the importer understands to their index.
type columns map[string]int

func (c columns) get(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (i *Importer) importCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(columns, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"latitude", "longitude", "date"} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("header missing required column %q", required)
		}
	}

	var res Result
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			i.logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}

		rec, err := rowToRecord(cols, record)
		if err != nil {
			i.logger.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}
		if err := i.store.InsertCase(ctx, rec); err != nil {
			i.logger.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// rowToRecord converts one CSV row into a store record, assigning an ID when
// the export carries none.
func rowToRecord(cols columns, record []string) (store.CaseRecord, error) {
	lat, err := strconv.ParseFloat(cols.get(record, "latitude"), 64)
	if err != nil {
		return store.CaseRecord{}, fmt.Errorf("bad latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(cols.get(record, "longitude"), 64)
	if err != nil {
		return store.CaseRecord{}, fmt.Errorf("bad longitude: %w", err)
	}
	date := cols.get(record, "date")
	if date == "" {
		return store.CaseRecord{}, fmt.Errorf("missing date")
	}

	id := cols.get(record, "id")
	if id == "" {
		id = uuid.NewString()
	}

	age := 0
	if raw := cols.get(record, "subject_age"); raw != "" {
		age, err = strconv.Atoi(raw)
		if err != nil {
			return store.CaseRecord{}, fmt.Errorf("bad subject_age: %w", err)
		}
	}

	rec := store.CaseRecord{
		ID:            id,
		Precinct:      cols.get(record, "precinct"),
		Neighborhood:  cols.get(record, "neighborhood"),
		Latitude:      lat,
		Longitude:     lng,
		OccurredAt:    date,
		Problem:       cols.get(record, "problem"),
		ForceCategory: cols.get(record, "force_category"),
		SubjectID:     cols.get(record, "subject_id"),
		SubjectRace:   cols.get(record, "subject_race"),
		SubjectSex:    cols.get(record, "subject_sex"),
		SubjectAge:    age,
	}
	// A subject with demographics but no export ID still needs a row.
	if rec.SubjectID == "" && (rec.SubjectRace != "" || rec.SubjectSex != "" || rec.SubjectAge != 0) {
		rec.SubjectID = uuid.NewString()
	}
	return rec, nil
}
