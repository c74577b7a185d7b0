package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

// ImportResponse is the body of the driver import endpoint.
type ImportResponse struct {
	Success       bool              `json:"success"`
	Count         int               `json:"count"`
	ExistingCount int               `json:"existingCount"`
	Failures      []core.RowFailure `json:"failures"`
	Message       string            `json:"message"`
	BatchID       string            `json:"batchId,omitempty"`
	Code          string            `json:"code,omitempty"`
}

// importFailure writes a response with success=false and no counts.
func importFailure(w http.ResponseWriter, status int, err error) {
	userErr := core.NewUserError(err)
	writeJSON(w, status, ImportResponse{
		Failures: []core.RowFailure{},
		Message:  userErr.Error(),
		Code:     userErr.User.Code,
	})
}

// handleImportDrivers imports a driver CSV for one team. The multipart form
// carries the file under "file" and the team under "constructorId".
func (s *Server) handleImportDrivers(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("file too large: %w", err)
		}
		logger.Warn("import form rejected", "error", err)
		importFailure(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		importFailure(w, http.StatusBadRequest, errNoFile)
		return
	}
	defer file.Close()

	teamID, err := parseTeamID(r.FormValue("constructorId"))
	if err != nil {
		importFailure(w, http.StatusBadRequest, err)
		return
	}

	rows, err := core.ParseDriverCSV(file)
	switch {
	case errors.Is(err, core.ErrEmptyFile):
		importFailure(w, http.StatusOK, core.ErrEmptyBatch)
		return
	case err != nil:
		logger.Warn("import file rejected", "file", header.Filename, "error", err)
		importFailure(w, http.StatusBadRequest, err)
		return
	}

	if limit := s.cfg.Import.MaxRows; limit > 0 && len(rows) > limit {
		importFailure(w, http.StatusBadRequest, fmt.Errorf("%w: %d > %d", errTooManyRows, len(rows), limit))
		return
	}

	ctx := withRequestMeta(r.Context(), r)
	out, err := s.service.RunBatch(ctx, rows, teamID)
	if err != nil {
		s.respondImportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Success:       true,
		Count:         out.Created,
		ExistingCount: out.Existing,
		Failures:      out.Failures,
		Message:       out.Message,
		BatchID:       out.BatchID,
	})
}

// respondImportError reports a batch that did not commit. Partial counts are
// only logged.
func (s *Server) respondImportError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrEmptyBatch) {
		importFailure(w, http.StatusOK, err)
		return
	}

	status := statusFor(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("driver import failed", "status", status, "error", err)
	} else {
		logger.Warn("driver import rejected", "status", status, "error", err)
	}

	if status == http.StatusInternalServerError {
		// Never describe what was processed before the rollback.
		writeJSON(w, status, ImportResponse{
			Failures: []core.RowFailure{},
			Message:  "Failed to import drivers. Nothing was saved.",
			Code:     core.NewUserError(err).User.Code,
		})
		return
	}
	importFailure(w, status, err)
}
