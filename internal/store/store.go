// Package store persists authored models and saved scenario deltas in SQLite.
// Forecast output is never stored; it is recomputed on demand.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/fcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a model or scenario does not exist.
var ErrNotFound = errors.New("not found")

// Store provides SQLite-backed model storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return New(db), nil
}

// New wraps an already opened database whose schema exists.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ModelSummary is the listing view of a stored model.
type ModelSummary struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Unit       model.DurationUnit `json:"unit"`
	Length     int                `json:"length"`
	SourcePath string             `json:"source_path,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SaveModel stores m, assigning an ID and update time when missing, and
// returns the stored model.
func (s *Store) SaveModel(m model.FinancialModel) (model.FinancialModel, error) {
	return s.saveModel(m, "", nil)
}

// SaveImportedModel stores a model parsed from a file together with the
// file's tracking info.
func (s *Store) SaveImportedModel(m model.FinancialModel, path string, fi FileInfo) (model.FinancialModel, error) {
	return s.saveModel(m, path, &fi)
}

func (s *Store) saveModel(m model.FinancialModel, path string, fi *FileInfo) (model.FinancialModel, error) {
	m = model.Resolve(m)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = s.now().UTC()
	}

	body, err := json.Marshal(m)
	if err != nil {
		return m, fmt.Errorf("encoding model %s: %w", m.ID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return m, err
	}
	defer func() { _ = tx.Rollback() }()

	// Upsert rather than REPLACE so saved scenarios survive a re-import.
	_, err = tx.Exec(`INSERT INTO models
		(model_id, name, schema_version, duration_unit, duration_length,
		 source_path, body, updated_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(model_id) DO UPDATE SET
		 name = excluded.name, schema_version = excluded.schema_version,
		 duration_unit = excluded.duration_unit, duration_length = excluded.duration_length,
		 source_path = excluded.source_path, body = excluded.body,
		 updated_at = excluded.updated_at, saved_at = excluded.saved_at`,
		m.ID, m.DisplayName(), m.SchemaVersion, string(m.Duration.Unit), m.Duration.Length,
		path, string(body), m.UpdatedAt.UTC().Format(timeLayout), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return m, err
	}

	if fi != nil {
		_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, model_id, mtime_ns, size_bytes)
			VALUES (?, ?, ?, ?)`, path, m.ID, fi.MtimeNs, fi.SizeBytes)
		if err != nil {
			return m, err
		}
	}

	return m, tx.Commit()
}

// GetModel reads one model by ID.
func (s *Store) GetModel(id string) (model.FinancialModel, error) {
	var body string
	err := s.db.QueryRow("SELECT body FROM models WHERE model_id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialModel{}, fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.FinancialModel{}, err
	}
	return decodeModel(body)
}

// LoadAllModels reads every stored model, most recently updated first.
func (s *Store) LoadAllModels() ([]model.FinancialModel, error) {
	rows, err := s.db.Query("SELECT body FROM models ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var models []model.FinancialModel
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		m, err := decodeModel(body)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// ListModels returns summaries of every stored model, most recently updated
// first.
func (s *Store) ListModels() ([]ModelSummary, error) {
	rows, err := s.db.Query(`SELECT model_id, name, duration_unit, duration_length,
		source_path, updated_at FROM models ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ModelSummary
	for rows.Next() {
		var ms ModelSummary
		var unit, updated string
		var sourcePath sql.NullString
		if err := rows.Scan(&ms.ID, &ms.Name, &unit, &ms.Length, &sourcePath, &updated); err != nil {
			return nil, err
		}
		ms.Unit = model.DurationUnit(unit)
		if sourcePath.Valid {
			ms.SourcePath = sourcePath.String
		}
		ms.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, ms)
	}
	return out, rows.Err()
}

// DeleteModel removes a model, its scenarios, and its file tracking entry.
func (s *Store) DeleteModel(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM models WHERE model_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE model_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ModelCount returns the number of stored models.
func (s *Store) ModelCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM models").Scan(&count)
	return count, err
}

func decodeModel(body string) (model.FinancialModel, error) {
	var m model.FinancialModel
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return m, fmt.Errorf("decoding stored model: %w", err)
	}
	return model.Resolve(m), nil
}
