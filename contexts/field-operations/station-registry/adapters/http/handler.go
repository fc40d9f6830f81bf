package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"centinela/contexts/field-operations/station-registry/application/commands"
	"centinela/contexts/field-operations/station-registry/application/queries"
	"centinela/contexts/field-operations/station-registry/domain/entities"
	httptransport "centinela/contexts/field-operations/station-registry/transport/http"
	"centinela/internal/shared/actor"
)

type Handler struct {
	Stations commands.StationUseCase
	Queries  queries.StationQueries
	Logger   *slog.Logger
}

func (h Handler) CreateStationHandler(
	ctx context.Context,
	caller actor.Actor,
	req httptransport.CreateStationRequest,
) (httptransport.StationResponse, error) {
	station, err := h.Stations.CreateStation(ctx, caller, commands.CreateStationCommand{
		Nombre:       req.Nombre,
		Departamento: req.Departamento,
		Municipio:    req.Municipio,
		Puesto:       req.Puesto,
		Mesas:        req.Mesas,
		Direccion:    req.Direccion,
		Latitud:      req.Latitud,
		Longitud:     req.Longitud,
	})
	if err != nil {
		return httptransport.StationResponse{}, err
	}
	return toStationResponse(station), nil
}

func (h Handler) ListStationsHandler(ctx context.Context, caller actor.Actor) (httptransport.StationListResponse, error) {
	stations, err := h.Queries.ListStations(ctx, caller)
	if err != nil {
		return httptransport.StationListResponse{}, err
	}
	items := make([]httptransport.StationResponse, 0, len(stations))
	for _, station := range stations {
		items = append(items, toStationResponse(station))
	}
	return httptransport.StationListResponse{Items: items}, nil
}

func (h Handler) DeleteStationHandler(ctx context.Context, caller actor.Actor, stationID string) error {
	return h.Stations.DeleteStation(ctx, caller, stationID)
}

func (h Handler) AvailableTablesHandler(ctx context.Context, stationID string) (httptransport.AvailableTablesResponse, error) {
	availability, err := h.Queries.AvailableTables(ctx, stationID)
	if err != nil {
		return httptransport.AvailableTablesResponse{}, err
	}
	return httptransport.AvailableTablesResponse{
		PuestoID:         availability.StationID,
		MesasTotales:     availability.MesasTotales,
		MesasAsignadas:   availability.MesasAsignadas,
		MesasDisponibles: availability.MesasDisponibles,
	}, nil
}

func toStationResponse(station entities.Station) httptransport.StationResponse {
	return httptransport.StationResponse{
		ID:              station.StationID,
		Nombre:          station.Nombre,
		Departamento:    station.Departamento,
		Municipio:       station.Municipio,
		Puesto:          station.Puesto,
		Mesas:           station.TotalMesas,
		Direccion:       station.Direccion,
		Latitud:         station.Latitud,
		Longitud:        station.Longitud,
		CreadoPorID:     station.CreadoPorID,
		CreadoPorNombre: station.CreadoPor,
		CreadoEn:        station.CreadoEn.UTC().Format(time.RFC3339),
	}
}
