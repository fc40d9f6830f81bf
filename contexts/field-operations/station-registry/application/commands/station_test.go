package commands

import (
	"context"
	"errors"
	"testing"

	"centinela/contexts/field-operations/station-registry/adapters/memory"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/internal/shared/actor"
)

func newStationUseCase(store *memory.Store) StationUseCase {
	return StationUseCase{
		Stations: store,
		Clock:    store,
		IDGen:    store,
	}
}

func coordinatorActor() actor.Actor {
	return actor.Actor{
		UserID:    "coord-1",
		Name:      "Laura Pérez",
		Role:      actor.RoleCoordinator,
		Municipio: "Cali",
	}
}

func validStationCommand() CreateStationCommand {
	return CreateStationCommand{
		Departamento: "Valle del Cauca",
		Municipio:    "Cali",
		Puesto:       "IE Santa Librada",
		Mesas:        "5",
		Direccion:    "Calle 7 # 14-06",
		Latitud:      3.4516,
		Longitud:     -76.5320,
	}
}

func TestCreateStationParsesMesas(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	station, err := uc.CreateStation(context.Background(), coordinatorActor(), validStationCommand())
	if err != nil {
		t.Fatalf("create station failed: %v", err)
	}
	if station.TotalMesas != 5 {
		t.Fatalf("expected 5 mesas, got %d", station.TotalMesas)
	}
	if station.Nombre != "IE Santa Librada" {
		t.Fatalf("expected nombre defaulted to puesto, got %q", station.Nombre)
	}
	if station.StationID == "" {
		t.Fatal("expected generated station id")
	}
}

func TestCreateStationRejectsBadMesas(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	for _, mesas := range []string{"", "abc", "0", "-3", "2.5"} {
		cmd := validStationCommand()
		cmd.Mesas = mesas
		if _, err := uc.CreateStation(context.Background(), coordinatorActor(), cmd); !errors.Is(err, domainerrors.ErrInvalidMesasValue) {
			t.Fatalf("mesas %q: expected ErrInvalidMesasValue, got %v", mesas, err)
		}
	}
}

func TestCreateStationRejectsBadCoordinates(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	cmd := validStationCommand()
	cmd.Latitud = 91
	if _, err := uc.CreateStation(context.Background(), coordinatorActor(), cmd); !errors.Is(err, domainerrors.ErrLatitudeOutOfRange) {
		t.Fatalf("expected ErrLatitudeOutOfRange, got %v", err)
	}

	cmd = validStationCommand()
	cmd.Longitud = -181
	if _, err := uc.CreateStation(context.Background(), coordinatorActor(), cmd); !errors.Is(err, domainerrors.ErrLongitudeOutOfRange) {
		t.Fatalf("expected ErrLongitudeOutOfRange, got %v", err)
	}
}

func TestCreateStationRejectsDuplicateIdentity(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	if _, err := uc.CreateStation(context.Background(), coordinatorActor(), validStationCommand()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Same identity tuple with different casing and spacing.
	cmd := validStationCommand()
	cmd.Puesto = "  ie santa librada "
	cmd.Departamento = "VALLE DEL CAUCA"
	if _, err := uc.CreateStation(context.Background(), coordinatorActor(), cmd); !errors.Is(err, domainerrors.ErrStationExists) {
		t.Fatalf("expected ErrStationExists, got %v", err)
	}
}

func TestCreateStationForbiddenForWitness(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	caller := actor.Actor{UserID: "w-1", Role: actor.RoleWitness}
	if _, err := uc.CreateStation(context.Background(), caller, validStationCommand()); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteStationRequiresLeaderOrAdmin(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newStationUseCase(store)

	station, err := uc.CreateStation(context.Background(), coordinatorActor(), validStationCommand())
	if err != nil {
		t.Fatalf("create station failed: %v", err)
	}

	if err := uc.DeleteStation(context.Background(), coordinatorActor(), station.StationID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for coordinator, got %v", err)
	}

	admin := actor.Actor{UserID: "admin-1", Role: actor.RoleAdmin}
	if err := uc.DeleteStation(context.Background(), admin, station.StationID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := uc.DeleteStation(context.Background(), admin, station.StationID); !errors.Is(err, domainerrors.ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound after delete, got %v", err)
	}
}
