package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "centinela/contexts/field-operations/station-registry/application"
	"centinela/contexts/field-operations/station-registry/domain/entities"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/contexts/field-operations/station-registry/domain/policy"
	"centinela/contexts/field-operations/station-registry/ports"
	"centinela/internal/shared/actor"
)

// CreateStationCommand carries the raw station fields as entered by the
// caller. Mesas stays free text here; it is parsed and normalized once
// during validation.
type CreateStationCommand struct {
	Nombre       string
	Departamento string
	Municipio    string
	Puesto       string
	Mesas        string
	Direccion    string
	Latitud      float64
	Longitud     float64
}

// StationUseCase orchestrates station registration and removal.
type StationUseCase struct {
	Stations ports.StationRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// CreateStation validates the full field set, parses the table count and
// rejects duplicates of the identity tuple before persisting.
func (uc StationUseCase) CreateStation(ctx context.Context, caller actor.Actor, cmd CreateStationCommand) (entities.Station, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !policy.CanManageStations(caller) {
		logger.Warn("station create denied",
			"event", "station_create_denied",
			"module", "field-operations/station-registry",
			"layer", "application",
			"user_id", caller.UserID,
			"role", string(caller.Role),
		)
		return entities.Station{}, domainerrors.ErrForbidden
	}

	departamento := strings.TrimSpace(cmd.Departamento)
	municipio := strings.TrimSpace(cmd.Municipio)
	puesto := strings.TrimSpace(cmd.Puesto)
	direccion := strings.TrimSpace(cmd.Direccion)
	if departamento == "" || municipio == "" || puesto == "" || direccion == "" {
		return entities.Station{}, domainerrors.ErrInvalidStationInput
	}
	if cmd.Latitud < -90 || cmd.Latitud > 90 {
		return entities.Station{}, domainerrors.ErrLatitudeOutOfRange
	}
	if cmd.Longitud < -180 || cmd.Longitud > 180 {
		return entities.Station{}, domainerrors.ErrLongitudeOutOfRange
	}
	totalMesas, err := strconv.Atoi(strings.TrimSpace(cmd.Mesas))
	if err != nil || totalMesas < 1 {
		return entities.Station{}, domainerrors.ErrInvalidMesasValue
	}

	nombre := strings.TrimSpace(cmd.Nombre)
	if nombre == "" {
		nombre = puesto
	}

	station := entities.Station{
		Nombre:       nombre,
		Departamento: departamento,
		Municipio:    municipio,
		Puesto:       puesto,
		TotalMesas:   totalMesas,
		Direccion:    direccion,
		Latitud:      cmd.Latitud,
		Longitud:     cmd.Longitud,
		CreadoPorID:  strings.TrimSpace(caller.UserID),
		CreadoPor:    strings.TrimSpace(caller.Name),
	}

	exists, err := uc.Stations.StationExists(ctx, station.Identity())
	if err != nil {
		return entities.Station{}, err
	}
	if exists {
		return entities.Station{}, domainerrors.ErrStationExists
	}

	stationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Station{}, err
	}
	station.StationID = stationID
	station.CreadoEn = uc.now()

	// The unique index on the identity tuple backstops races between the
	// existence check and the insert.
	if err := uc.Stations.SaveStation(ctx, station); err != nil {
		return entities.Station{}, err
	}

	logger.Info("station created",
		"event", "station_created",
		"module", "field-operations/station-registry",
		"layer", "application",
		"station_id", station.StationID,
		"municipio", station.Municipio,
		"total_mesas", station.TotalMesas,
		"user_id", caller.UserID,
	)
	return station, nil
}

// DeleteStation removes a station record. Leaders and administrators only.
func (uc StationUseCase) DeleteStation(ctx context.Context, caller actor.Actor, stationID string) error {
	logger := application.ResolveLogger(uc.Logger)
	if !policy.CanDeleteStation(caller) {
		return domainerrors.ErrForbidden
	}
	if _, err := uc.Stations.GetStation(ctx, strings.TrimSpace(stationID)); err != nil {
		return err
	}
	if err := uc.Stations.DeleteStation(ctx, strings.TrimSpace(stationID)); err != nil {
		return err
	}
	logger.Info("station deleted",
		"event", "station_deleted",
		"module", "field-operations/station-registry",
		"layer", "application",
		"station_id", strings.TrimSpace(stationID),
		"user_id", caller.UserID,
	)
	return nil
}

func (uc StationUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
