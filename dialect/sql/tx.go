package sql

import (
	"context"
	"errors"
)

var (
	errTxActive   = errors.New("a transaction is already active")
	errTxInactive = errors.New("no active transaction")
)

// Begin starts a transaction. Until Commit or Rollback, every statement run
// through d uses it. Transactions do not nest.
func (d *DB) Begin(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx != nil {
		return &TransactionError{Op: "begin", Err: errTxActive}
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Op: "begin", Err: err}
	}
	d.tx = tx
	d.log.DebugContext(ctx, "begin transaction")
	return nil
}

// InTransaction reports whether a transaction is active.
func (d *DB) InTransaction() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tx != nil
}

// Commit commits the active transaction.
func (d *DB) Commit() error {
	tx, err := d.takeTx("commit")
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &TransactionError{Op: "commit", Err: err}
	}
	d.log.Debug("commit transaction")
	return nil
}

// Rollback rolls back the active transaction.
func (d *DB) Rollback() error {
	tx, err := d.takeTx("rollback")
	if err != nil {
		return err
	}
	if err := tx.Rollback(); err != nil {
		return &TransactionError{Op: "rollback", Err: err}
	}
	d.log.Debug("rollback transaction")
	return nil
}

// takeTx detaches the active transaction from d.
func (d *DB) takeTx(op string) (txCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx == nil {
		return nil, &TransactionError{Op: op, Err: errTxInactive}
	}
	tx := d.tx
	d.tx = nil
	return tx, nil
}

type txCloser interface {
	Commit() error
	Rollback() error
}
