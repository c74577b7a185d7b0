package web

import (
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
)

// DriversResponse lists drivers of a team.
type DriversResponse struct {
	TeamID  int64         `json:"constructorId"`
	Drivers []core.Driver `json:"drivers"`
}

// handleSearchDrivers returns drivers of the team whose name contains ?name=.
func (s *Server) handleSearchDrivers(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	limit := parseIntParam(r, "limit", core.DefaultSearchLimit)
	drivers, err := s.service.SearchTeamDrivers(r.Context(), teamID, r.URL.Query().Get("name"), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if drivers == nil {
		drivers = []core.Driver{}
	}

	writeJSON(w, http.StatusOK, DriversResponse{TeamID: teamID, Drivers: drivers})
}

// ActiveDriversResponse is the distinct driver count of a team for a year.
type ActiveDriversResponse struct {
	TeamID int64 `json:"constructorId"`
	Count  int   `json:"count"`
}

func (s *Server) handleActiveDrivers(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	n, err := s.service.ActiveDriverCount(r.Context(), teamID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, ActiveDriversResponse{TeamID: teamID, Count: n})
}
