package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"

	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/ports"
	"centinela/internal/shared/actor"
)

func TestReleaseMesaRemovesClaimAndAudits(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1, 2}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}

	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{
		Mesa:   2,
		Motivo: "error de conteo",
	})
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}

	assignment, found, err := store.GetAssignmentByWitness(context.Background(), result.Witness.WitnessID)
	if err != nil || !found {
		t.Fatalf("assignment lookup failed: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(assignment.Mesas, []int{1}) {
		t.Fatalf("expected remaining mesas [1], got %v", assignment.Mesas)
	}

	audits := store.ListAudits("st-1", result.Witness.WitnessID)
	if len(audits) != 1 {
		t.Fatalf("expected exactly one audit row, got %d", len(audits))
	}
	audit := audits[0]
	if audit.Mesa != 2 || audit.Motivo != "error de conteo" {
		t.Fatalf("unexpected audit row: %+v", audit)
	}
	if audit.LiberadoPorID != "coord-1" || audit.RolLiberador != string(actor.RoleCoordinator) {
		t.Fatalf("unexpected releaser in audit: %+v", audit)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "witness.mesa.released" {
		t.Fatalf("expected one release event in outbox, got %+v", pending)
	}
}

func TestReleaseMesaRequiresMotivo(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}
	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 1, Motivo: "   "})
	if !errors.Is(err, domainerrors.ErrMotivoRequired) {
		t.Fatalf("expected ErrMotivoRequired, got %v", err)
	}
}

func TestReleaseMesaNotAssigned(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}
	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 3, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrMesaNotAssigned) {
		t.Fatalf("expected ErrMesaNotAssigned, got %v", err)
	}

	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 9, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrMesaOutOfRange) {
		t.Fatalf("expected ErrMesaOutOfRange, got %v", err)
	}
}

func TestReleaseMesaBlockedBySurveyState(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1, 2}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}

	store.SetSurveyState("IE Central", "Cali", 1, ports.SurveyStateFinalized)
	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 1, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrMesaFinalized) {
		t.Fatalf("expected ErrMesaFinalized, got %v", err)
	}

	store.SetSurveyState("IE Central", "Cali", 2, ports.SurveyStateRegistered)
	err = uc.ReleaseMesa(context.Background(), coordinator(), result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 2, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrMesaHasResults) {
		t.Fatalf("expected ErrMesaHasResults, got %v", err)
	}

	if audits := store.ListAudits("st-1", ""); len(audits) != 0 {
		t.Fatalf("blocked releases must not audit, got %d rows", len(audits))
	}
}

func TestReleaseMesaCoordinatorOutsideMunicipio(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}
	other := actor.Actor{UserID: "coord-9", Role: actor.RoleCoordinator, Municipio: "Bogotá"}
	err = uc.ReleaseMesa(context.Background(), other, result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 1, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrReleaseOutsideMunicipio) {
		t.Fatalf("expected ErrReleaseOutsideMunicipio, got %v", err)
	}
}

func TestReleaseMesaForbiddenForWitnessRole(t *testing.T) {
	store := seedStore()
	uc := newWitnessUseCase(store)

	result, err := uc.CreateWitness(context.Background(), coordinator(), witnessCommand("a@example.com", []int{1}))
	if err != nil {
		t.Fatalf("create witness failed: %v", err)
	}
	caller := actor.Actor{UserID: result.Witness.WitnessID, Role: actor.RoleWitness}
	err = uc.ReleaseMesa(context.Background(), caller, result.Witness.WitnessID, ReleaseMesaCommand{Mesa: 1, Motivo: "cambio"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
