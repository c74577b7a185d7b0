package core

import (
	"context"
	"fmt"
	"strings"
)

// Resolver finds a driver by ref or creates it.
type Resolver struct{}

// Resolve returns the id of the driver identified by row.Ref, creating the
// driver when none exists. created reports whether this call inserted it.
// Fields submitted for an existing driver are discarded.
func (Resolver) Resolve(ctx context.Context, tx Tx, row ImportRow) (int64, bool, error) {
	ref := strings.TrimSpace(row.Ref)
	if ref == "" {
		return 0, false, ErrMissingRef
	}

	id, found, err := tx.FindDriverByRef(ctx, ref)
	if err != nil {
		return 0, false, fmt.Errorf("find driver %q: %w", ref, err)
	}
	if found {
		return id, false, nil
	}

	d := row.Driver()
	d.Ref = ref
	id, inserted, err := tx.InsertDriver(ctx, d)
	if err != nil {
		return 0, false, fmt.Errorf("insert driver %q: %w", ref, err)
	}
	if inserted {
		return id, true, nil
	}

	// Another batch inserted the ref between our lookup and insert.
	id, found, err = tx.FindDriverByRef(ctx, ref)
	if err != nil {
		return 0, false, fmt.Errorf("re-read driver %q: %w", ref, err)
	}
	if !found {
		return 0, false, fmt.Errorf("driver %q conflicted on insert but is not visible", ref)
	}
	return id, false, nil
}
