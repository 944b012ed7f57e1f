package report

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the report tables.
const Schema = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    trigger_name TEXT NOT NULL,
    root TEXT NOT NULL,
    git_url TEXT,
    git_commit TEXT,
    total_files INTEGER NOT NULL,
    failed_files INTEGER NOT NULL,
    rules INTEGER NOT NULL,
    queries INTEGER NOT NULL,
    functions INTEGER NOT NULL,
    declared_types INTEGER NOT NULL,
    error_count INTEGER NOT NULL,
    error_counts TEXT,
    files TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_started_at ON reports(started_at);
`

// insertSchemaVersion records the schema version once.
const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// getSchemaVersion reads the newest schema version.
const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
