package core

import (
	"context"
	"fmt"
)

// Associator links drivers to a team for a season.
type Associator struct{}

// Associate records that driverID drives for teamID in year. Asserting an
// existing association succeeds without change.
func (Associator) Associate(ctx context.Context, tx Tx, driverID, teamID int64, year int) error {
	if err := tx.LinkDriverTeam(ctx, driverID, teamID, year); err != nil {
		return fmt.Errorf("link driver %d to team %d for %d: %w", driverID, teamID, year, err)
	}
	return nil
}
