package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Transaction(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `t`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, db.Begin(ctx))
	assert.True(t, db.InTransaction())
	err := db.Begin(ctx)
	require.True(t, IsTransactionError(err), "transactions do not nest")
	n, err := db.DeleteFrom(ctx, "t", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, db.Commit())
	assert.False(t, db.InTransaction())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Rollback(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	require.NoError(t, db.Begin(ctx))
	require.NoError(t, db.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_TransactionErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)

	err := db.Commit()
	require.ErrorIs(t, err, ErrTransaction)
	var te *TransactionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "commit", te.Op)

	err = db.Rollback()
	require.True(t, IsTransactionError(err))
	assert.Contains(t, err.Error(), "roll back")

	mock.ExpectBegin().WillReturnError(errors.New("server gone"))
	err = db.Begin(ctx)
	require.True(t, IsTransactionError(err))
	assert.Contains(t, err.Error(), "server gone")
	assert.False(t, db.InTransaction())

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("deadlock"))
	require.NoError(t, db.Begin(ctx))
	err = db.Commit()
	require.True(t, IsTransactionError(err))
	assert.False(t, db.InTransaction(), "a failed commit still ends the transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionScenario(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, db.Begin(ctx))
	_, err := db.Insert(ctx, "users", map[string]Value{"name": Text("tmp")})
	require.NoError(t, err)
	n, err := db.CountTable(ctx, "users", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "reads inside the transaction see its writes")
	require.NoError(t, db.Rollback())

	n, err = db.CountTable(ctx, "users", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
