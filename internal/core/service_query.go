package core

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

// SearchTeamDrivers returns drivers associated with teamID whose full name
// ("forename surname") contains name, ignoring case, so "lewis ham" matches
// across the two columns. An empty name lists every driver of the team.
func (s *Service) SearchTeamDrivers(ctx context.Context, teamID int64, name string, limit int) ([]Driver, error) {
	if teamID <= 0 {
		return nil, &InputError{Err: ErrMissingTeam}
	}
	drivers, err := s.store.SearchTeamDrivers(ctx, teamID, strings.TrimSpace(name), clampLimit(limit, DefaultSearchLimit, MaxSearchLimit))
	if err != nil {
		return nil, fmt.Errorf("search team %d drivers: %w", teamID, err)
	}
	return drivers, nil
}

// ActiveDriverCount returns the number of distinct drivers associated with
// teamID for the current UTC year.
func (s *Service) ActiveDriverCount(ctx context.Context, teamID int64) (int, error) {
	if teamID <= 0 {
		return 0, &InputError{Err: ErrMissingTeam}
	}
	n, err := s.store.CountTeamDrivers(ctx, teamID, s.now().UTC().Year())
	if err != nil {
		return 0, fmt.Errorf("count team %d drivers: %w", teamID, err)
	}
	return n, nil
}

// TeamLog returns the most recent team_log entries, newest first.
func (s *Service) TeamLog(ctx context.Context, teamID int64, limit int) ([]TeamLogEntry, error) {
	if teamID <= 0 {
		return nil, &InputError{Err: ErrMissingTeam}
	}
	entries, err := s.store.ListTeamLog(ctx, teamID, clampLimit(limit, DefaultLogLimit, MaxLogLimit))
	if err != nil {
		return nil, fmt.Errorf("list team %d log: %w", teamID, err)
	}
	return entries, nil
}

func clampLimit(limit, def, max int) int {
	switch {
	case limit <= 0:
		return def
	case limit > max:
		return max
	default:
		return limit
	}
}
