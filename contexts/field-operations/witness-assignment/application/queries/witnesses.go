package queries

import (
	"context"

	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/domain/policy"
	"centinela/contexts/field-operations/witness-assignment/ports"
	"centinela/internal/shared/actor"
)

// WitnessView is the roster entry returned to coordinators: account data
// plus the assignment summary.
type WitnessView struct {
	WitnessID    string
	Nombre       string
	Correo       string
	Telefono     string
	Municipio    string
	PuestoID     string
	PuestoNombre string
	Mesas        []int
}

type WitnessQueries struct {
	Witnesses ports.WitnessRepository
	Stations  ports.StationReader
}

// ListWitnesses returns every witness for administrators and only the
// witnesses the coordinator created otherwise.
func (q WitnessQueries) ListWitnesses(ctx context.Context, caller actor.Actor) ([]WitnessView, error) {
	if !policy.CanListWitnesses(caller) {
		return nil, domainerrors.ErrForbidden
	}
	createdBy := ""
	if caller.IsCoordinator() {
		createdBy = caller.UserID
	}
	witnesses, err := q.Witnesses.ListWitnesses(ctx, createdBy)
	if err != nil {
		return nil, err
	}

	views := make([]WitnessView, 0, len(witnesses))
	for _, witness := range witnesses {
		view := WitnessView{
			WitnessID: witness.WitnessID,
			Nombre:    witness.Nombre,
			Correo:    witness.Correo,
			Telefono:  witness.Telefono,
			Municipio: witness.Municipio,
		}
		assignment, found, err := q.Witnesses.GetAssignmentByWitness(ctx, witness.WitnessID)
		if err != nil {
			return nil, err
		}
		if found {
			view.PuestoID = assignment.StationID
			view.Mesas = append([]int(nil), assignment.Mesas...)
			station, err := q.Stations.GetStation(ctx, assignment.StationID)
			if err == nil {
				view.PuestoNombre = station.Puesto
			}
		}
		views = append(views, view)
	}
	return views, nil
}
