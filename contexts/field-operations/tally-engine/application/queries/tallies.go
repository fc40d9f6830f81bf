package queries

import (
	"context"
	"sort"
	"strings"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/domain/policy"
	"centinela/contexts/field-operations/tally-engine/ports"
	"centinela/internal/shared/actor"
)

// MesaStatus is one row of the witness's worklist: a claimed mesa and
// whether its tally went out already.
type MesaStatus struct {
	StationID    string
	PuestoNombre string
	Mesa         int
	Estado       string
}

// MesaForm is the data needed to render or validate the submission form
// for one mesa.
type MesaForm struct {
	StationID    string
	PuestoNombre string
	Municipio    string
	Mesa         int
	Candidates   []entities.Candidate
	Result       *entities.MesaResult
	Editable     bool
}

type TallyQueries struct {
	Tallies     ports.TallyRepository
	Assignments ports.AssignmentReader
	Stations    ports.StationReader
	Roster      ports.CandidateRoster
}

// ListMyMesas returns the caller's claimed mesas with their submission
// state, PENDIENTE when no tally row exists yet.
func (q TallyQueries) ListMyMesas(ctx context.Context, caller actor.Actor) ([]MesaStatus, error) {
	if !caller.IsWitness() {
		return nil, domainerrors.ErrForbidden
	}
	assignment, found, err := q.Assignments.GetAssignmentByWitness(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []MesaStatus{}, nil
	}
	station, err := q.Stations.GetStation(ctx, assignment.StationID)
	if err != nil {
		return nil, err
	}

	mesas := append([]int(nil), assignment.Mesas...)
	sort.Ints(mesas)
	statuses := make([]MesaStatus, 0, len(mesas))
	for _, mesa := range mesas {
		status := MesaStatus{
			StationID:    station.StationID,
			PuestoNombre: station.Puesto,
			Mesa:         mesa,
			Estado:       entities.EstadoPendiente,
		}
		result, exists, err := q.Tallies.GetResult(ctx, station.StationID, mesa)
		if err != nil {
			return nil, err
		}
		if exists {
			status.Estado = result.Estado
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ListResults returns submitted tallies for administrators and, scoped to
// their municipio, for coordinators.
func (q TallyQueries) ListResults(ctx context.Context, caller actor.Actor) ([]entities.MesaResult, error) {
	if !policy.CanViewAllTallies(caller) {
		return nil, domainerrors.ErrForbidden
	}
	municipio := ""
	if caller.IsCoordinator() {
		municipio = strings.TrimSpace(caller.Municipio)
	}
	return q.Tallies.ListResults(ctx, municipio)
}

// GetMesaForm returns the roster plus any existing tally for one mesa.
// Editable is true only for the assigned witness while the tally is not
// yet ENVIADA.
func (q TallyQueries) GetMesaForm(ctx context.Context, caller actor.Actor, stationID string, mesa int) (MesaForm, error) {
	station, err := q.Stations.GetStation(ctx, strings.TrimSpace(stationID))
	if err != nil {
		return MesaForm{}, err
	}
	if mesa < 1 || mesa > station.TotalMesas {
		return MesaForm{}, domainerrors.ErrMesaOutOfRange
	}

	if caller.IsWitness() {
		assignment, found, err := q.Assignments.GetAssignmentByWitness(ctx, caller.UserID)
		if err != nil {
			return MesaForm{}, err
		}
		if !found || assignment.StationID != station.StationID || !containsMesa(assignment.Mesas, mesa) {
			return MesaForm{}, domainerrors.ErrMesaAccess
		}
	} else if !policy.CanViewAllTallies(caller) {
		return MesaForm{}, domainerrors.ErrForbidden
	}

	candidates, err := q.Roster.ListCandidates(ctx)
	if err != nil {
		return MesaForm{}, err
	}

	form := MesaForm{
		StationID:    station.StationID,
		PuestoNombre: station.Puesto,
		Municipio:    station.Municipio,
		Mesa:         mesa,
		Candidates:   candidates,
		Editable:     caller.IsWitness(),
	}
	result, exists, err := q.Tallies.GetResult(ctx, station.StationID, mesa)
	if err != nil {
		return MesaForm{}, err
	}
	if exists {
		form.Result = &result
		if result.Submitted() {
			form.Editable = false
		}
	}
	return form, nil
}

func containsMesa(mesas []int, mesa int) bool {
	for _, claimed := range mesas {
		if claimed == mesa {
			return true
		}
	}
	return false
}
