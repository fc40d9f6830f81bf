package httpserver

import (
	"errors"
	"net/http"

	auditerrors "centinela/contexts/field-operations/release-audit/domain/errors"
)

func (s *Server) handleListReleases(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.audits.Handler.ListReleasesHandler(
		r.Context(),
		caller,
		query.Get("puesto_id"),
		query.Get("testigo_id"),
	)
	if err != nil {
		if errors.Is(err, auditerrors.ErrForbidden) {
			writeError(w, http.StatusForbidden, "forbidden", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
