package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"centinela/contexts/field-operations/witness-assignment/adapters/memory"
	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/ports"
	"centinela/internal/shared/actor"
)

func newWitnessUseCase(store *memory.Store) WitnessUseCase {
	return WitnessUseCase{
		Witnesses: store,
		Stations:  store,
		Surveys:   store,
		Hasher:    memory.PlainHasher{},
		Outbox:    store,
		Clock:     memory.SystemClock{},
		IDGen:     memory.UUIDGenerator{},
	}
}

func seedStore() *memory.Store {
	return memory.NewStore([]ports.StationProjection{{
		StationID:  "st-1",
		Puesto:     "IE Central",
		Municipio:  "Cali",
		TotalMesas: 5,
	}})
}

func coordinator() actor.Actor {
	return actor.Actor{UserID: "coord-1", Name: "Laura Pérez", Role: actor.RoleCoordinator, Municipio: "Cali"}
}

func witnessCommand(correo string, mesas []int) CreateWitnessCommand {
	return CreateWitnessCommand{
		PrimerNombre:   "Ana",
		PrimerApellido: "García",
		Telefono:       "3001234567",
		Correo:         correo,
		Password:       "secreta-123",
		PuestoID:       "st-1",
		Mesas:          mesas,
	}
}

func TestCreateWitnessAssignsMesas(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("Ana@Example.com", []int{2, 1}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}
	if result.Witness.Correo != "ana@example.com" {
		t.Fatalf("expected lowercased correo, got %q", result.Witness.Correo)
	}
	if !reflect.DeepEqual(result.Assignment.Mesas, []int{1, 2}) {
		t.Fatalf("expected mesas sorted [1 2], got %v", result.Assignment.Mesas)
	}
	if result.Municipio != "Cali" {
		t.Fatalf("expected municipio inherited from station, got %q", result.Municipio)
	}
}

func TestCreateWitnessConflictNamesSortedMesas(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	if _, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1, 2})); err != nil {
		t.Fatalf("first witness failed: %v", err)
	}

	_, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("b@example.com", []int{3, 2, 1}))
	var mesasErr domainerrors.MesasAsignadasError
	if !errors.As(err, &mesasErr) {
		t.Fatalf("expected MesasAsignadasError, got %v", err)
	}
	if !reflect.DeepEqual(mesasErr.Mesas, []int{1, 2}) {
		t.Fatalf("expected conflict on [1 2], got %v", mesasErr.Mesas)
	}

	// The failed request must not have claimed mesa 3.
	assignments, err := store.ListAssignmentsByStation(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("list assignments failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected one assignment after failed create, got %d", len(assignments))
	}
}

func TestCreateWitnessValidatesMesas(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	cases := []struct {
		mesas []int
		want  error
	}{
		{nil, domainerrors.ErrMesasRequired},
		{[]int{}, domainerrors.ErrMesasRequired},
		{[]int{1, 1}, domainerrors.ErrMesasDuplicated},
		{[]int{0}, domainerrors.ErrMesasOutOfRange},
		{[]int{6}, domainerrors.ErrMesasOutOfRange},
	}
	for _, tc := range cases {
		_, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("x@example.com", tc.mesas))
		if !errors.Is(err, tc.want) {
			t.Fatalf("mesas %v: expected %v, got %v", tc.mesas, tc.want, err)
		}
	}
}

func TestCreateWitnessCoordinatorMunicipioRules(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	noMunicipio := actor.Actor{UserID: "coord-2", Role: actor.RoleCoordinator}
	if _, err := uc.CreateWitness(context.Background(), noMunicipio, witnessCommand("a@example.com", []int{1})); !errors.Is(err, domainerrors.ErrCoordinatorWithoutMunicipio) {
		t.Fatalf("expected ErrCoordinatorWithoutMunicipio, got %v", err)
	}

	otherMunicipio := actor.Actor{UserID: "coord-3", Role: actor.RoleCoordinator, Municipio: "Bogotá"}
	if _, err := uc.CreateWitness(context.Background(), otherMunicipio, witnessCommand("a@example.com", []int{1})); !errors.Is(err, domainerrors.ErrStationOutsideMunicipio) {
		t.Fatalf("expected ErrStationOutsideMunicipio, got %v", err)
	}

	// Administrators are not municipio-scoped.
	admin := actor.Actor{UserID: "admin-1", Role: actor.RoleAdmin}
	if _, err := uc.CreateWitness(context.Background(), admin, witnessCommand("a@example.com", []int{1})); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestCreateWitnessDuplicateEmail(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	if _, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("dup@example.com", []int{1})); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("dup@example.com", []int{3})); !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateWitnessForbiddenForWitnessRole(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	caller := actor.Actor{UserID: "w-1", Role: actor.RoleWitness}
	if _, err := uc.CreateWitness(context.Background(), caller, witnessCommand("a@example.com", []int{1})); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
