package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	witnesserrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	witnesshttp "centinela/contexts/field-operations/witness-assignment/transport/http"
)

func (s *Server) handleCreateWitness(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	var req witnesshttp.CreateWitnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.witness.Handler.CreateWitnessHandler(r.Context(), caller, req)
	if err != nil {
		writeWitnessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListWitnesses(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.witness.Handler.ListWitnessesHandler(r.Context(), caller)
	if err != nil {
		writeWitnessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReleaseMesa(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	var req witnesshttp.ReleaseMesaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.witness.Handler.ReleaseMesaHandler(r.Context(), caller, r.PathValue("testigo_id"), req)
	if err != nil {
		writeWitnessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWitnessDomainError(w http.ResponseWriter, err error) {
	// Claim conflicts are validation failures to the caller: the response
	// names the already assigned mesas so the form can be corrected.
	var mesasErr witnesserrors.MesasAsignadasError
	if errors.As(err, &mesasErr) {
		writeError(w, http.StatusBadRequest, "mesas_asignadas", mesasErr.Error())
		return
	}
	switch {
	case errors.Is(err, witnesserrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, witnesserrors.ErrStationOutsideMunicipio),
		errors.Is(err, witnesserrors.ErrReleaseOutsideMunicipio):
		writeError(w, http.StatusForbidden, "outside_municipio", err.Error())
	case errors.Is(err, witnesserrors.ErrWitnessNotFound),
		errors.Is(err, witnesserrors.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, witnesserrors.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email_taken", err.Error())
	case errors.Is(err, witnesserrors.ErrMesaFinalized),
		errors.Is(err, witnesserrors.ErrMesaHasResults),
		errors.Is(err, witnesserrors.ErrMesaNoLongerAssigned),
		errors.Is(err, witnesserrors.ErrConflict):
		writeError(w, http.StatusBadRequest, "conflict", err.Error())
	case errors.Is(err, witnesserrors.ErrInvalidWitnessInput),
		errors.Is(err, witnesserrors.ErrCoordinatorWithoutMunicipio),
		errors.Is(err, witnesserrors.ErrInvalidMesasValue),
		errors.Is(err, witnesserrors.ErrMesasRequired),
		errors.Is(err, witnesserrors.ErrMesasDuplicated),
		errors.Is(err, witnesserrors.ErrMesasOutOfRange),
		errors.Is(err, witnesserrors.ErrNoAssignment),
		errors.Is(err, witnesserrors.ErrMesaOutOfRange),
		errors.Is(err, witnesserrors.ErrMesaNotAssigned),
		errors.Is(err, witnesserrors.ErrMotivoRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
