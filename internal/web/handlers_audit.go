package web

import (
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
)

// TeamLogResponse lists the newest team_log entries of a team.
type TeamLogResponse struct {
	TeamID  int64               `json:"constructorId"`
	Entries []core.TeamLogEntry `json:"entries"`
}

// handleTeamLog returns recent team activity, newest first. ?limit= caps the
// number of entries.
func (s *Server) handleTeamLog(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	limit := parseIntParam(r, "limit", core.DefaultLogLimit)
	entries, err := s.service.TeamLog(r.Context(), teamID, limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if entries == nil {
		entries = []core.TeamLogEntry{}
	}

	writeJSON(w, http.StatusOK, TeamLogResponse{TeamID: teamID, Entries: entries})
}
