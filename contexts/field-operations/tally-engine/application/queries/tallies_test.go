package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"centinela/contexts/field-operations/tally-engine/adapters/memory"
	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/ports"
	"centinela/internal/shared/actor"
)

func seedQueryStore() *memory.Store {
	store := memory.NewStore(
		[]ports.StationView{{StationID: "st-1", Puesto: "IE Central", Municipio: "Cali", TotalMesas: 5}},
		[]entities.Candidate{
			{CandidateID: "cand-1", Nombre: "Beatriz Rojas"},
			{CandidateID: "cand-2", Nombre: "Carlos Méndez"},
		},
	)
	store.SeedAssignment(ports.AssignmentView{WitnessID: "w-1", StationID: "st-1", Mesas: []int{2, 1}})
	return store
}

func submitMesa(t *testing.T, store *memory.Store, mesa int) {
	t.Helper()
	now := time.Now().UTC()
	err := store.SubmitResult(context.Background(), entities.MesaResult{
		ResultID:  "res-1",
		StationID: "st-1",
		Municipio: "Cali",
		Mesa:      mesa,
		Votos:     map[string]int{"cand-1": 10, "cand-2": 7},
		TestigoID: "w-1",
		Estado:    entities.EstadoEnviada,
		EnviadoEn: &now,
		CreadoEn:  now,
	})
	if err != nil {
		t.Fatalf("seed submit failed: %v", err)
	}
}

func TestListMyMesasReportsStates(t *testing.T) {
	store := seedQueryStore()
	submitMesa(t, store, 1)
	q := TallyQueries{Tallies: store, Assignments: store, Stations: store, Roster: store}

	statuses, err := q.ListMyMesas(context.Background(), actor.Actor{UserID: "w-1", Role: actor.RoleWitness})
	if err != nil {
		t.Fatalf("list my mesas failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 mesas, got %d", len(statuses))
	}
	if statuses[0].Mesa != 1 || statuses[0].Estado != entities.EstadoEnviada {
		t.Fatalf("expected mesa 1 ENVIADA, got %+v", statuses[0])
	}
	if statuses[1].Mesa != 2 || statuses[1].Estado != entities.EstadoPendiente {
		t.Fatalf("expected mesa 2 PENDIENTE, got %+v", statuses[1])
	}
}

func TestGetMesaFormEditableUntilSubmitted(t *testing.T) {
	store := seedQueryStore()
	q := TallyQueries{Tallies: store, Assignments: store, Stations: store, Roster: store}
	caller := actor.Actor{UserID: "w-1", Role: actor.RoleWitness}

	form, err := q.GetMesaForm(context.Background(), caller, "st-1", 1)
	if err != nil {
		t.Fatalf("get form failed: %v", err)
	}
	if !form.Editable {
		t.Fatal("expected form editable before submission")
	}
	if len(form.Candidates) != 2 || form.Candidates[0].Nombre != "Beatriz Rojas" {
		t.Fatalf("expected roster ordered by name, got %+v", form.Candidates)
	}

	submitMesa(t, store, 1)
	form, err = q.GetMesaForm(context.Background(), caller, "st-1", 1)
	if err != nil {
		t.Fatalf("get form after submit failed: %v", err)
	}
	if form.Editable {
		t.Fatal("expected form read-only after submission")
	}
	if form.Result == nil || form.Result.Estado != entities.EstadoEnviada {
		t.Fatalf("expected submitted result attached, got %+v", form.Result)
	}
}

func TestGetMesaFormDeniesUnassignedWitness(t *testing.T) {
	store := seedQueryStore()
	q := TallyQueries{Tallies: store, Assignments: store, Stations: store, Roster: store}

	stranger := actor.Actor{UserID: "w-9", Role: actor.RoleWitness}
	if _, err := q.GetMesaForm(context.Background(), stranger, "st-1", 1); !errors.Is(err, domainerrors.ErrMesaAccess) {
		t.Fatalf("expected ErrMesaAccess, got %v", err)
	}
}

func TestListResultsScopesCoordinator(t *testing.T) {
	store := seedQueryStore()
	submitMesa(t, store, 1)
	q := TallyQueries{Tallies: store, Assignments: store, Stations: store, Roster: store}

	coordinator := actor.Actor{UserID: "c-1", Role: actor.RoleCoordinator, Municipio: "Bogotá"}
	results, err := q.ListResults(context.Background(), coordinator)
	if err != nil {
		t.Fatalf("list results failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results outside coordinator municipio, got %d", len(results))
	}

	admin := actor.Actor{UserID: "a-1", Role: actor.RoleAdmin}
	results, err = q.ListResults(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result for admin, got %d", len(results))
	}

	witness := actor.Actor{UserID: "w-1", Role: actor.RoleWitness}
	if _, err := q.ListResults(context.Background(), witness); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for witness, got %v", err)
	}
}
