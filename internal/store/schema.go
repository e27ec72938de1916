package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS models (
    model_id             TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    schema_version       INTEGER NOT NULL,
    duration_unit        TEXT NOT NULL,
    duration_length      INTEGER NOT NULL,
    source_path          TEXT,
    body                 TEXT NOT NULL,
    updated_at           TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
    scenario_id          TEXT PRIMARY KEY,
    baseline_id          TEXT NOT NULL REFERENCES models(model_id) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    deltas               TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    model_id             TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_models_updated ON models(updated_at);
CREATE INDEX IF NOT EXISTS idx_scenarios_baseline ON scenarios(baseline_id);
`

// timeLayout sorts lexically in the same order as the times it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
