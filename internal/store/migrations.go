package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions",
		SQL: `
			CREATE TABLE sessions (
				key         TEXT PRIMARY KEY,
				record      TEXT NOT NULL,
				touched_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`,
	},
}
