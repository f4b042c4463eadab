package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewDatabase(mock), mock
}

func TestRunInTx_Commit(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := db.RunInTx(context.Background(), func(ctx context.Context) error {
		require.NotNil(t, TxFromContext(ctx))

		_, err := db.Exec(ctx, "UPDATE users SET name = $1", "x")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	db, mock := newMockDatabase(t)

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.RunInTx(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	require.Panics(t, func() {
		_ = db.RunInTx(context.Background(), func(context.Context) error { panic("boom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.RunInTx(context.Background(), func(ctx context.Context) error {
		outer := TxFromContext(ctx)

		return db.RunInTx(ctx, func(ctx context.Context) error {
			require.Same(t, outer, TxFromContext(ctx))
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_BeginError(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

	called := false
	err := db.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "begin transaction")
	require.False(t, called)
}

func TestQueryOutsideTxUsesPool(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectQuery("SELECT 1").WillReturnRows(pgxmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT 1").Scan(&n))
	require.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
