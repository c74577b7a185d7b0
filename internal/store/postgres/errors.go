package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/roster/internal/core"
)

// classify marks errors after which the transaction cannot continue with
// core.ErrTxUnusable. Constraint violations and other statement errors are
// returned unchanged so the batch can roll back to the row savepoint.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, core.ErrTxUnusable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if txFatalSQLState(pgErr.Code) {
			return fmt.Errorf("%w: %w", core.ErrTxUnusable, err)
		}
		return err
	}

	if pgconn.Timeout(err) ||
		errors.Is(err, pgx.ErrTxClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %w", core.ErrTxUnusable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", core.ErrTxUnusable, err)
	}
	return err
}

// txFatalSQLState reports connection exceptions (08), invalid transaction
// state (25) and operator intervention (57P).
func txFatalSQLState(code string) bool {
	return strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "25") ||
		strings.HasPrefix(code, "57P")
}
