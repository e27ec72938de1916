package pipeline

import (
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/store"
)

func TestSyncDirLogsTrackerCleanupFailure(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const gone = "/models/retired.toml"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT file_path, model_id, mtime_ns, size_bytes FROM file_tracker")).
		WillReturnRows(sqlmock.NewRows([]string{"file_path", "model_id", "mtime_ns", "size_bytes"}).
			AddRow(gone, "retired", int64(1), int64(2)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM models WHERE model_id = ?")).
		WithArgs("retired").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM file_tracker WHERE model_id = ?")).
		WithArgs("retired").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM file_tracker WHERE file_path = ?")).
		WithArgs(gone).
		WillReturnError(errors.New("database is locked"))

	res, err := SyncDir(t.TempDir(), store.New(db), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Empty(t, res.Models)
	assert.NoError(t, mock.ExpectationsWereMet())

	out := buf.String()
	assert.Contains(t, out, "removing tracker of deleted file")
	assert.Contains(t, out, "database is locked")
	assert.Contains(t, out, gone)
}
