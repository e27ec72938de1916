package store

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "fcast.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func festival() model.FinancialModel {
	return model.FinancialModel{
		Name:     "Harbour Festival",
		Duration: model.Duration{Unit: model.UnitMonthly, Length: 6},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", BaseValue: 20, Role: model.RoleTicket},
		},
		Event: model.EventMetadata{InitialAttendance: 250},
	}
}

func TestSaveAndGetModel(t *testing.T) {
	s := openTemp(t)

	saved, err := s.SaveModel(festival())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := s.GetModel(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Name, got.Name)
	assert.Equal(t, saved.RevenueStreams, got.RevenueStreams)
	assert.True(t, saved.UpdatedAt.Equal(got.UpdatedAt))

	n, err := s.ModelCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetModelNotFound(t *testing.T) {
	s := openTemp(t)
	_, err := s.GetModel("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListModelsNewestFirst(t *testing.T) {
	s := openTemp(t)

	older := festival()
	older.ID = "older"
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := festival()
	newer.ID = "newer"
	newer.Name = "Winter Lights"
	newer.UpdatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.SaveModel(older)
	require.NoError(t, err)
	_, err = s.SaveImportedModel(newer, "/models/winter.toml", FileInfo{MtimeNs: 42, SizeBytes: 7})
	require.NoError(t, err)

	list, err := s.ListModels()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)
	assert.Equal(t, "/models/winter.toml", list[0].SourcePath)
	assert.Equal(t, model.UnitMonthly, list[0].Unit)
	assert.Equal(t, 6, list[0].Length)

	tracked, err := s.GetTrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, FileInfo{ModelID: "newer", MtimeNs: 42, SizeBytes: 7}, tracked["/models/winter.toml"])

	all, err := s.LoadAllModels()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestScenarios(t *testing.T) {
	s := openTemp(t)
	base, err := s.SaveModel(festival())
	require.NoError(t, err)

	sc, err := s.SaveScenario(Scenario{
		BaselineID: base.ID,
		Deltas: model.ScenarioDeltas{
			Name:         "Push",
			Pricing:      5,
			ChannelSpend: map[string]model.Percent{"Social": 20},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sc.ID)
	assert.Equal(t, "Push", sc.Name)

	list, err := s.ListScenarios(base.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.Percent(5), list[0].Deltas.Pricing)
	assert.Equal(t, model.Percent(20), list[0].Deltas.ChannelSpend["Social"])

	got, err := s.GetScenario(sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push", got.Deltas.Name)

	require.NoError(t, s.DeleteScenario(sc.ID))
	assert.ErrorIs(t, s.DeleteScenario(sc.ID), ErrNotFound)
}

func TestSaveScenarioRequiresBaseline(t *testing.T) {
	s := openTemp(t)
	_, err := s.SaveScenario(Scenario{BaselineID: "ghost", Name: "x"})
	assert.Error(t, err)
}

func TestDeleteModelCascades(t *testing.T) {
	s := openTemp(t)
	base, err := s.SaveImportedModel(festival(), "/m.toml", FileInfo{MtimeNs: 1, SizeBytes: 1})
	require.NoError(t, err)
	_, err = s.SaveScenario(Scenario{BaselineID: base.ID, Name: "Lean"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteModel(base.ID))

	list, err := s.ListScenarios(base.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	tracked, err := s.GetTrackedFiles()
	require.NoError(t, err)
	assert.Empty(t, tracked)

	assert.ErrorIs(t, s.DeleteModel(base.ID), ErrNotFound)
}

func TestGetModelNoRowsWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM models WHERE model_id = ?")).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err = New(db).GetModel("abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveModelRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO models")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = New(db).SaveModel(festival())
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListModelsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT model_id, name").WillReturnError(errors.New("locked"))

	_, err = New(db).ListModels()
	assert.EqualError(t, err, "locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResaveModelKeepsScenarios(t *testing.T) {
	s := openTemp(t)
	base, err := s.SaveModel(festival())
	require.NoError(t, err)
	_, err = s.SaveScenario(Scenario{BaselineID: base.ID, Name: "Lean"})
	require.NoError(t, err)

	base.Name = "Harbour Festival 2027"
	_, err = s.SaveModel(base)
	require.NoError(t, err)

	list, err := s.ListScenarios(base.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
