package queries

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"centinela/contexts/field-operations/station-registry/adapters/memory"
	"centinela/contexts/field-operations/station-registry/domain/entities"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/internal/shared/actor"
)

func seedStation(totalMesas int) entities.Station {
	return entities.Station{
		StationID:    "st-1",
		Nombre:       "IE Central",
		Departamento: "Valle del Cauca",
		Municipio:    "Cali",
		Puesto:       "IE Central",
		TotalMesas:   totalMesas,
		Direccion:    "Cra 1 # 2-33",
		CreadoEn:     time.Now().UTC(),
	}
}

func TestAvailableTablesComputesComplement(t *testing.T) {
	store := memory.NewStore([]entities.Station{seedStation(5)})
	store.SetClaimedTables("st-1", []int{2, 1, 2})
	q := StationQueries{Stations: store, Claims: store}

	availability, err := q.AvailableTables(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("available tables failed: %v", err)
	}
	if availability.MesasTotales != 5 {
		t.Fatalf("expected 5 mesas totales, got %d", availability.MesasTotales)
	}
	if !reflect.DeepEqual(availability.MesasAsignadas, []int{1, 2}) {
		t.Fatalf("expected asignadas [1 2], got %v", availability.MesasAsignadas)
	}
	if !reflect.DeepEqual(availability.MesasDisponibles, []int{3, 4, 5}) {
		t.Fatalf("expected disponibles [3 4 5], got %v", availability.MesasDisponibles)
	}
}

func TestAvailableTablesFullyClaimed(t *testing.T) {
	store := memory.NewStore([]entities.Station{seedStation(3)})
	store.SetClaimedTables("st-1", []int{1, 2, 3})
	q := StationQueries{Stations: store, Claims: store}

	availability, err := q.AvailableTables(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("available tables failed: %v", err)
	}
	if len(availability.MesasDisponibles) != 0 {
		t.Fatalf("expected no available mesas, got %v", availability.MesasDisponibles)
	}
}

func TestAvailableTablesUnknownStation(t *testing.T) {
	store := memory.NewStore(nil)
	q := StationQueries{Stations: store, Claims: store}

	if _, err := q.AvailableTables(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
}

func TestListStationsScopesCoordinatorToMunicipio(t *testing.T) {
	cali := seedStation(3)
	bogota := seedStation(4)
	bogota.StationID = "st-2"
	bogota.Municipio = "Bogotá"
	bogota.Puesto = "IE Norte"
	store := memory.NewStore([]entities.Station{cali, bogota})
	q := StationQueries{Stations: store, Claims: store}

	coordinator := actor.Actor{UserID: "c-1", Role: actor.RoleCoordinator, Municipio: "Cali"}
	stations, err := q.ListStations(context.Background(), coordinator)
	if err != nil {
		t.Fatalf("list stations failed: %v", err)
	}
	if len(stations) != 1 || stations[0].StationID != "st-1" {
		t.Fatalf("expected only the Cali station, got %v", stations)
	}

	admin := actor.Actor{UserID: "a-1", Role: actor.RoleAdmin}
	stations, err = q.ListStations(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected both stations for admin, got %d", len(stations))
	}
}
