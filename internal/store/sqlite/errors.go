package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JonMunkholm/roster/internal/core"
)

// classify marks errors after which SQLite has rolled the transaction back
// on its own, or the connection is gone, with core.ErrTxUnusable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, sql.ErrTxDone) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", core.ErrTxUnusable, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && txFatalCode(sqliteErr.Code()) {
		return fmt.Errorf("%w: %w", core.ErrTxUnusable, err)
	}
	return err
}

// txFatalCode reports result codes after which SQLite may roll back the
// whole transaction.
func txFatalCode(code int) bool {
	switch code & 0xff {
	case sqlite3.SQLITE_FULL,
		sqlite3.SQLITE_IOERR,
		sqlite3.SQLITE_BUSY,
		sqlite3.SQLITE_NOMEM,
		sqlite3.SQLITE_INTERRUPT,
		sqlite3.SQLITE_CORRUPT,
		sqlite3.SQLITE_NOTADB:
		return true
	}
	return false
}
