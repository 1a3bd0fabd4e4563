package store

// SchemaVersion is the current database schema version, kept in PRAGMA user_version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the rules database schema.
const Schema = `
-- Rules table; seq preserves creation order
CREATE TABLE IF NOT EXISTS rules (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    rule_string TEXT NOT NULL,
    ast TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rules_name ON rules(name);
`

const (
	insertRuleSQL = `
		INSERT INTO rules (id, name, rule_string, ast, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	getRuleSQL = `
		SELECT id, name, rule_string, ast, created_at
		FROM rules
		WHERE id = ?
	`

	getRuleByNameSQL = `
		SELECT id, name, rule_string, ast, created_at
		FROM rules
		WHERE name = ?
		ORDER BY seq
		LIMIT 1
	`

	listRulesSQL = `
		SELECT id, name, rule_string, ast, created_at
		FROM rules
		ORDER BY seq
	`

	deleteRuleSQL = `DELETE FROM rules WHERE id = ?`

	countRulesSQL = `SELECT COUNT(*) FROM rules`

	checkpointSQL = `PRAGMA wal_checkpoint(TRUNCATE)`
)
