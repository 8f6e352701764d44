package store

// schemaTables lists every table the migrations create, in creation order.
var schemaTables = []string{
	"precincts",
	"neighborhoods",
	"force_categories",
	"subjects",
	"cases",
	"force_actions",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS precincts (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS neighborhoods (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS force_categories (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id   TEXT PRIMARY KEY,
		race TEXT,
		sex  TEXT,
		age  INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id              TEXT PRIMARY KEY,
		precinct_id     INTEGER REFERENCES precincts(id),
		neighborhood_id INTEGER REFERENCES neighborhoods(id),
		latitude        REAL NOT NULL,
		longitude       REAL NOT NULL,
		occurred_at     TEXT NOT NULL,
		problem         TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS force_actions (
		id          TEXT PRIMARY KEY,
		case_id     TEXT NOT NULL UNIQUE REFERENCES cases(id) ON DELETE CASCADE,
		subject_id  TEXT REFERENCES subjects(id),
		category_id INTEGER REFERENCES force_categories(id)
	)`,
	// occurred_at is ISO 8601, so the first four characters are the year.
	`CREATE INDEX IF NOT EXISTS idx_cases_year ON cases (substr(occurred_at, 1, 4))`,
	`CREATE INDEX IF NOT EXISTS idx_force_actions_case ON force_actions (case_id)`,
}

// migrate applies the schema. Statements are idempotent so this runs on
// every Open.
func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
