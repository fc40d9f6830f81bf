package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	tallyerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	tallyhttp "centinela/contexts/field-operations/tally-engine/transport/http"
)

func (s *Server) handleListTallies(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.tallies.Handler.ListTalliesHandler(r.Context(), caller)
	if err != nil {
		writeTallyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMesaForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	mesa, ok := parseMesa(w, r)
	if !ok {
		return
	}
	resp, err := s.tallies.Handler.MesaFormHandler(r.Context(), caller, r.PathValue("puesto_id"), mesa)
	if err != nil {
		writeTallyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitTally(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	mesa, ok := parseMesa(w, r)
	if !ok {
		return
	}
	var req tallyhttp.SubmitTallyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.tallies.Handler.SubmitTallyHandler(r.Context(), caller, r.PathValue("puesto_id"), mesa, req)
	if err != nil {
		writeTallyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func parseMesa(w http.ResponseWriter, r *http.Request) (int, bool) {
	mesa, err := strconv.Atoi(r.PathValue("mesa"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_mesa", "mesa must be an integer")
		return 0, false
	}
	return mesa, true
}

func writeTallyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tallyerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, tallyerrors.ErrMesaAccess):
		writeError(w, http.StatusForbidden, "mesa_access_denied", err.Error())
	case errors.Is(err, tallyerrors.ErrStationNotFound),
		errors.Is(err, tallyerrors.ErrResultNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, tallyerrors.ErrAlreadySubmitted):
		writeError(w, http.StatusBadRequest, "already_submitted", err.Error())
	case errors.Is(err, tallyerrors.ErrRepeatedCandidate),
		errors.Is(err, tallyerrors.ErrMesaOutOfRange),
		errors.Is(err, tallyerrors.ErrNegativeVotes),
		errors.Is(err, tallyerrors.ErrUnknownCandidate),
		errors.Is(err, tallyerrors.ErrIncompleteVotes),
		errors.Is(err, tallyerrors.ErrEmptyRoster):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
