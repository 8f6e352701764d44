package store

import (
	"context"
	"database/sql"
	"fmt"

	"forcemap/internal/model"
)

// CaseRecord is the flat shape the importer hands to InsertCase. Optional
// fields left empty produce NULL links; a case with no ForceCategory and no
// subject fields gets no force_actions row at all.
type CaseRecord struct {
	ID           string
	Precinct     string
	Neighborhood string
	Latitude     float64
	Longitude    float64
	OccurredAt   string // ISO 8601
	Problem      string

	ForceID       string
	ForceCategory string
	SubjectID     string
	SubjectRace   string
	SubjectSex    string
	SubjectAge    int
}

// hasForce reports whether the record carries any force-action data.
func (r CaseRecord) hasForce() bool {
	return r.ForceCategory != "" || r.SubjectID != "" ||
		r.SubjectRace != "" || r.SubjectSex != "" || r.SubjectAge != 0
}

// InsertCase stores one case and its force/subject chain in a single
// transaction, upserting the referenced precinct, neighborhood, and force
// category rows.
func (s *Store) InsertCase(ctx context.Context, rec CaseRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("case record requires an id")
	}
	if rec.OccurredAt == "" {
		return fmt.Errorf("case %s requires an occurred_at timestamp", rec.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	precinctID, err := upsertLookup(ctx, tx, "precincts", "code", rec.Precinct)
	if err != nil {
		return fmt.Errorf("failed to upsert precinct: %w", err)
	}
	neighborhoodID, err := upsertLookup(ctx, tx, "neighborhoods", "name", rec.Neighborhood)
	if err != nil {
		return fmt.Errorf("failed to upsert neighborhood: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cases (id, precinct_id, neighborhood_id, latitude, longitude, occurred_at, problem)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, precinctID, neighborhoodID, rec.Latitude, rec.Longitude, rec.OccurredAt, rec.Problem)
	if err != nil {
		return fmt.Errorf("failed to insert case %s: %w", rec.ID, err)
	}

	if rec.hasForce() {
		categoryID, err := upsertLookup(ctx, tx, "force_categories", "name", rec.ForceCategory)
		if err != nil {
			return fmt.Errorf("failed to upsert force category: %w", err)
		}

		var subjectID interface{}
		if rec.SubjectID != "" {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO subjects (id, race, sex, age) VALUES (?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET race = excluded.race, sex = excluded.sex, age = excluded.age`,
				rec.SubjectID, rec.SubjectRace, rec.SubjectSex, rec.SubjectAge); err != nil {
				return fmt.Errorf("failed to upsert subject %s: %w", rec.SubjectID, err)
			}
			subjectID = rec.SubjectID
		}

		forceID := rec.ForceID
		if forceID == "" {
			forceID = rec.ID + "/force"
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO force_actions (id, case_id, subject_id, category_id) VALUES (?, ?, ?, ?)`,
			forceID, rec.ID, subjectID, categoryID); err != nil {
			return fmt.Errorf("failed to insert force action for case %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// upsertLookup inserts value into a single-column lookup table if absent and
// returns its row id. An empty value yields a NULL reference.
func upsertLookup(ctx context.Context, tx *sql.Tx, table, column, value string) (interface{}, error) {
	if value == "" {
		return nil, nil
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (?)", table, column), value); err != nil {
		return nil, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", table, column), value).Scan(&id); err != nil {
		return nil, err
	}
	return id, nil
}

// AvailableYears returns the distinct years with at least one case,
// ascending.
func (s *Store) AvailableYears(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT substr(occurred_at, 1, 4) AS year FROM cases ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	defer rows.Close()

	var years []string
	for rows.Next() {
		var y string
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// CasesByYear returns every case recorded in the given year with its nested
// force/subject chain. A case without a force action has a nil Force; a
// force action without a subject has a nil Subject.
func (s *Store) CasesByYear(ctx context.Context, year string) ([]model.CaseWrapper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.latitude, c.longitude, c.occurred_at, c.problem,
		       p.code, n.name,
		       fa.id, fc.name,
		       sub.id, sub.race, sub.sex, sub.age
		FROM cases c
		LEFT JOIN precincts p        ON p.id = c.precinct_id
		LEFT JOIN neighborhoods n    ON n.id = c.neighborhood_id
		LEFT JOIN force_actions fa   ON fa.case_id = c.id
		LEFT JOIN force_categories fc ON fc.id = fa.category_id
		LEFT JOIN subjects sub       ON sub.id = fa.subject_id
		WHERE substr(c.occurred_at, 1, 4) = ?
		ORDER BY c.occurred_at, c.id`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases for %s: %w", year, err)
	}
	defer rows.Close()

	var out []model.CaseWrapper
	for rows.Next() {
		var (
			c        model.Case
			problem  sql.NullString
			precinct sql.NullString
			hood     sql.NullString
			forceID  sql.NullString
			category sql.NullString
			subID    sql.NullString
			race     sql.NullString
			sex      sql.NullString
			age      sql.NullInt64
		)
		if err := rows.Scan(&c.Latitude, &c.Longitude, &c.Date, &problem,
			&precinct, &hood, &forceID, &category, &subID, &race, &sex, &age); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		c.Problem = problem.String
		c.Precinct = precinct.String
		c.Neighborhood = hood.String

		if forceID.Valid {
			f := &model.Force{Type: category.String}
			if subID.Valid {
				f.Subject = &model.Subject{
					Race: race.String,
					Sex:  sex.String,
					Age:  int(age.Int64),
				}
			}
			c.Force = f
		}
		out = append(out, model.CaseWrapper{Case: c})
	}
	return out, rows.Err()
}
