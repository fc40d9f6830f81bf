package queries

import (
	"context"
	"sort"
	"strings"

	"centinela/contexts/field-operations/station-registry/domain/entities"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/contexts/field-operations/station-registry/domain/policy"
	"centinela/contexts/field-operations/station-registry/ports"
	"centinela/internal/shared/actor"
)

// Availability is the computed table occupancy of one station.
type Availability struct {
	StationID        string
	MesasTotales     int
	MesasAsignadas   []int
	MesasDisponibles []int
}

type StationQueries struct {
	Stations ports.StationRepository
	Claims   ports.ClaimedTablesReader
}

// ListStations restricts coordinators to their municipio; every other
// allowed role gets the unrestricted view.
func (q StationQueries) ListStations(ctx context.Context, caller actor.Actor) ([]entities.Station, error) {
	if !policy.CanManageStations(caller) {
		return nil, domainerrors.ErrForbidden
	}
	return q.Stations.ListStations(ctx, policy.ListScope(caller))
}

// AvailableTables computes {1..TotalMesas} minus the union of every
// witness's claimed tables at this station.
func (q StationQueries) AvailableTables(ctx context.Context, stationID string) (Availability, error) {
	station, err := q.Stations.GetStation(ctx, strings.TrimSpace(stationID))
	if err != nil {
		return Availability{}, err
	}
	if station.TotalMesas < 1 {
		return Availability{}, domainerrors.ErrInvalidMesasValue
	}

	claimed, err := q.Claims.ListClaimedTables(ctx, station.StationID)
	if err != nil {
		return Availability{}, err
	}
	taken := make(map[int]bool, len(claimed))
	asignadas := make([]int, 0, len(claimed))
	for _, mesa := range claimed {
		if taken[mesa] {
			continue
		}
		taken[mesa] = true
		asignadas = append(asignadas, mesa)
	}
	sort.Ints(asignadas)

	disponibles := make([]int, 0, station.TotalMesas)
	for mesa := 1; mesa <= station.TotalMesas; mesa++ {
		if !taken[mesa] {
			disponibles = append(disponibles, mesa)
		}
	}
	return Availability{
		StationID:        station.StationID,
		MesasTotales:     station.TotalMesas,
		MesasAsignadas:   asignadas,
		MesasDisponibles: disponibles,
	}, nil
}
