package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/fcast/internal/model"
)

// Scenario is a saved delta set applied to a stored baseline model.
type Scenario struct {
	ID         string               `json:"id"`
	BaselineID string               `json:"baseline_id"`
	Name       string               `json:"name"`
	Deltas     model.ScenarioDeltas `json:"deltas"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// SaveScenario stores sc, assigning an ID when missing. The baseline must
// exist.
func (s *Store) SaveScenario(sc Scenario) (Scenario, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.Name == "" {
		sc.Name = sc.Deltas.Name
	}
	sc.Deltas.Name = sc.Name
	sc.UpdatedAt = s.now().UTC()

	deltas, err := json.Marshal(sc.Deltas)
	if err != nil {
		return sc, fmt.Errorf("encoding deltas: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO scenarios
		(scenario_id, baseline_id, name, deltas, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.BaselineID, sc.Name, string(deltas), sc.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return sc, fmt.Errorf("saving scenario %s: %w", sc.Name, err)
	}
	return sc, nil
}

// ListScenarios returns the scenarios saved against a baseline, oldest first.
func (s *Store) ListScenarios(baselineID string) ([]Scenario, error) {
	rows, err := s.db.Query(`SELECT scenario_id, baseline_id, name, deltas, updated_at
		FROM scenarios WHERE baseline_id = ? ORDER BY updated_at`, baselineID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Scenario
	for rows.Next() {
		var sc Scenario
		var deltas, updated string
		if err := rows.Scan(&sc.ID, &sc.BaselineID, &sc.Name, &deltas, &updated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deltas), &sc.Deltas); err != nil {
			return nil, fmt.Errorf("decoding deltas of %s: %w", sc.ID, err)
		}
		sc.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// GetScenario reads one scenario by ID.
func (s *Store) GetScenario(id string) (Scenario, error) {
	var sc Scenario
	var deltas, updated string
	err := s.db.QueryRow(`SELECT scenario_id, baseline_id, name, deltas, updated_at
		FROM scenarios WHERE scenario_id = ?`, id).
		Scan(&sc.ID, &sc.BaselineID, &sc.Name, &deltas, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return sc, err
	}
	if err := json.Unmarshal([]byte(deltas), &sc.Deltas); err != nil {
		return sc, fmt.Errorf("decoding deltas of %s: %w", sc.ID, err)
	}
	sc.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return sc, nil
}

// DeleteScenario removes a saved scenario.
func (s *Store) DeleteScenario(id string) error {
	res, err := s.db.Exec("DELETE FROM scenarios WHERE scenario_id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	return nil
}
