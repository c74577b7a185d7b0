package web

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
)

// parseIntParam parses a positive integer query parameter, falling back to
// defaultVal when it is absent or invalid.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseTeamID parses a team id. Anything but a positive integer is reported
// as a missing team.
func parseTeamID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.InputError{Err: core.ErrMissingTeam}
	}
	return id, nil
}

// teamIDParam reads the {teamID} route parameter.
func teamIDParam(r *http.Request) (int64, error) {
	return parseTeamID(chi.URLParam(r, "teamID"))
}

// clientIP returns the host part of r.RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
