package sql

import "sync/atomic"

var global atomic.Pointer[DB]

// InitGlobal installs db as the process-wide handle returned by
// CurrentGlobal. Connect never sets it. Replacing the handle does not
// affect code that already holds the previous one.
func InitGlobal(db *DB) {
	global.Store(db)
}

// CurrentGlobal returns the handle installed with InitGlobal, or
// ErrNoGlobal.
func CurrentGlobal() (*DB, error) {
	if db := global.Load(); db != nil {
		return db, nil
	}
	return nil, ErrNoGlobal
}
