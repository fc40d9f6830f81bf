package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	stationerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	stationhttp "centinela/contexts/field-operations/station-registry/transport/http"
)

func (s *Server) handleCreateStation(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	var req stationhttp.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.stations.Handler.CreateStationHandler(r.Context(), caller, req)
	if err != nil {
		writeStationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	resp, err := s.stations.Handler.ListStationsHandler(r.Context(), caller)
	if err != nil {
		writeStationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.resolveActor(w, r)
	if !ok {
		return
	}
	if err := s.stations.Handler.DeleteStationHandler(r.Context(), caller, r.PathValue("puesto_id")); err != nil {
		writeStationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAvailableTables(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveActor(w, r); !ok {
		return
	}
	resp, err := s.stations.Handler.AvailableTablesHandler(r.Context(), r.PathValue("puesto_id"))
	if err != nil {
		writeStationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeStationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stationerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, stationerrors.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "station_not_found", err.Error())
	case errors.Is(err, stationerrors.ErrStationExists):
		writeError(w, http.StatusBadRequest, "station_exists", err.Error())
	case errors.Is(err, stationerrors.ErrInvalidStationInput),
		errors.Is(err, stationerrors.ErrLatitudeOutOfRange),
		errors.Is(err, stationerrors.ErrLongitudeOutOfRange),
		errors.Is(err, stationerrors.ErrInvalidMesasValue):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
