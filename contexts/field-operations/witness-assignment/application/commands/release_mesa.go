package commands

import (
	"context"
	"strings"

	application "centinela/contexts/field-operations/witness-assignment/application"
	"centinela/contexts/field-operations/witness-assignment/domain/entities"
	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/domain/policy"
	"centinela/contexts/field-operations/witness-assignment/ports"
	"centinela/internal/shared/actor"
)

// ReleaseMesaCommand requests removal of one table from a witness's
// assignment. Motivo is mandatory and lands verbatim in the audit row.
type ReleaseMesaCommand struct {
	Mesa   int
	Motivo string
}

// ReleaseMesa validates authorization, bounds, membership and the external
// survey state, then delegates the locked remove-and-audit to the
// repository. A released table never touches any recorded tally row; the
// tally becomes re-enterable only because the claim is gone.
func (uc WitnessUseCase) ReleaseMesa(ctx context.Context, caller actor.Actor, witnessID string, cmd ReleaseMesaCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("mesa release processing started",
		"event", "witness_release_started",
		"module", "field-operations/witness-assignment",
		"layer", "application",
		"witness_id", strings.TrimSpace(witnessID),
		"mesa", cmd.Mesa,
		"user_id", caller.UserID,
	)

	if !policy.CanReleaseMesa(caller) {
		return domainerrors.ErrForbidden
	}
	motivo := strings.TrimSpace(cmd.Motivo)
	if motivo == "" {
		return domainerrors.ErrMotivoRequired
	}

	witness, err := uc.Witnesses.GetWitness(ctx, strings.TrimSpace(witnessID))
	if err != nil {
		return err
	}
	assignment, found, err := uc.Witnesses.GetAssignmentByWitness(ctx, witness.WitnessID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNoAssignment
	}

	station, err := uc.Stations.GetStation(ctx, assignment.StationID)
	if err != nil {
		return err
	}
	if caller.IsCoordinator() {
		if strings.TrimSpace(caller.Municipio) == "" {
			return domainerrors.ErrCoordinatorWithoutMunicipio
		}
		if !actor.SameMunicipio(station.Municipio, caller.Municipio) {
			return domainerrors.ErrReleaseOutsideMunicipio
		}
	}

	if station.TotalMesas < 1 {
		return domainerrors.ErrInvalidMesasValue
	}
	if cmd.Mesa < 1 || cmd.Mesa > station.TotalMesas {
		return domainerrors.ErrMesaOutOfRange
	}
	if !assignment.HasMesa(cmd.Mesa) {
		return domainerrors.ErrMesaNotAssigned
	}

	state, err := uc.Surveys.TableResultState(ctx, station.Puesto, station.Municipio, cmd.Mesa)
	if err != nil {
		return err
	}
	switch state {
	case ports.SurveyStateFinalized:
		return domainerrors.ErrMesaFinalized
	case ports.SurveyStateRegistered:
		return domainerrors.ErrMesaHasResults
	}

	auditID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := uc.now()
	audit := entities.ReleaseAudit{
		AuditID:       auditID,
		WitnessID:     witness.WitnessID,
		StationID:     station.StationID,
		Mesa:          cmd.Mesa,
		LiberadoPorID: strings.TrimSpace(caller.UserID),
		RolLiberador:  string(caller.Role),
		Motivo:        motivo,
		CreadoEn:      now,
	}

	// The repository re-verifies membership under the assignment row lock
	// and writes the audit row in the same transaction.
	if err := uc.Witnesses.ReleaseMesa(ctx, witness.WitnessID, cmd.Mesa, audit); err != nil {
		return err
	}

	if err := uc.appendReleaseEvent(ctx, audit, station); err != nil {
		return err
	}

	logger.Info("mesa released",
		"event", "witness_mesa_released",
		"module", "field-operations/witness-assignment",
		"layer", "application",
		"witness_id", witness.WitnessID,
		"station_id", station.StationID,
		"mesa", cmd.Mesa,
		"released_by", caller.UserID,
		"role", string(caller.Role),
	)
	return nil
}

func (uc WitnessUseCase) appendReleaseEvent(ctx context.Context, audit entities.ReleaseAudit, station ports.StationProjection) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newReleaseEnvelope(eventID, audit, station)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
