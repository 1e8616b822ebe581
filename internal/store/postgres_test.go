package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresMigrate(t *testing.T) {
	t.Parallel()

	st, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_cache").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetAuditMiss(t *testing.T) {
	t.Parallel()

	st, mock := newMockStore(t)
	mock.ExpectQuery("SELECT audit_json FROM audit_cache").
		WithArgs("key-1").
		WillReturnError(pgx.ErrNoRows)

	got, err := st.GetAudit(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetAuditHit(t *testing.T) {
	t.Parallel()

	st, mock := newMockStore(t)

	payload, err := json.Marshal(sampleReport("audit-7"))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT audit_json FROM audit_cache").
		WithArgs("key-1").
		WillReturnRows(pgxmock.NewRows([]string{"audit_json"}).AddRow(payload))

	got, err := st.GetAudit(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "audit-7", got.AuditID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutAudit(t *testing.T) {
	t.Parallel()

	st, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO audit_cache").
		WithArgs("key-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := st.PutAudit(context.Background(), "key-1", sampleReport("audit-1"), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteExpired(t *testing.T) {
	t.Parallel()

	st, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM audit_cache").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := st.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
