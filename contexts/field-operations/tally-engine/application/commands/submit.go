package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "centinela/contexts/field-operations/tally-engine/application"
	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/domain/policy"
	"centinela/contexts/field-operations/tally-engine/ports"
	"centinela/internal/shared/actor"
)

// SubmitTallyCommand carries the per-candidate counts a witness reports
// for one mesa.
type SubmitTallyCommand struct {
	StationID  string
	Mesa       int
	Votos      map[string]int
	VotoBlanco int
	VotoNulo   int
}

// TallyUseCase enforces the one-time submission rule on mesa tallies.
type TallyUseCase struct {
	Tallies     ports.TallyRepository
	Assignments ports.AssignmentReader
	Stations    ports.StationReader
	Roster      ports.CandidateRoster
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

// SubmitTally validates authorization, roster coverage and vote counts,
// then hands the one-shot PENDIENTE to ENVIADA transition to the
// repository. Only the witness assigned to the mesa may submit, and only
// once.
func (uc TallyUseCase) SubmitTally(ctx context.Context, caller actor.Actor, cmd SubmitTallyCommand) (entities.MesaResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	if !policy.CanSubmitTally(caller) {
		return entities.MesaResult{}, domainerrors.ErrForbidden
	}

	station, err := uc.Stations.GetStation(ctx, strings.TrimSpace(cmd.StationID))
	if err != nil {
		return entities.MesaResult{}, err
	}
	if cmd.Mesa < 1 || cmd.Mesa > station.TotalMesas {
		return entities.MesaResult{}, domainerrors.ErrMesaOutOfRange
	}

	assignment, found, err := uc.Assignments.GetAssignmentByWitness(ctx, caller.UserID)
	if err != nil {
		return entities.MesaResult{}, err
	}
	if !found || assignment.StationID != station.StationID || !containsMesa(assignment.Mesas, cmd.Mesa) {
		return entities.MesaResult{}, domainerrors.ErrMesaAccess
	}

	votos, err := uc.validateVotes(ctx, cmd)
	if err != nil {
		return entities.MesaResult{}, err
	}

	existing, exists, err := uc.Tallies.GetResult(ctx, station.StationID, cmd.Mesa)
	if err != nil {
		return entities.MesaResult{}, err
	}
	if exists && existing.Submitted() {
		return entities.MesaResult{}, domainerrors.ErrAlreadySubmitted
	}

	now := uc.now()
	result := entities.MesaResult{
		StationID:     station.StationID,
		Municipio:     station.Municipio,
		Mesa:          cmd.Mesa,
		Votos:         votos,
		VotoBlanco:    cmd.VotoBlanco,
		VotoNulo:      cmd.VotoNulo,
		TestigoID:     strings.TrimSpace(caller.UserID),
		Estado:        entities.EstadoEnviada,
		EnviadoEn:     &now,
		CreadoEn:      now,
		ActualizadoEn: now,
	}
	if exists {
		result.ResultID = existing.ResultID
		result.CreadoEn = existing.CreadoEn
	} else {
		resultID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.MesaResult{}, err
		}
		result.ResultID = resultID
	}

	// The repository re-checks the ENVIADA state under a row lock; the
	// pre-check above only exists to fail fast.
	if err := uc.Tallies.SubmitResult(ctx, result); err != nil {
		return entities.MesaResult{}, err
	}

	logger.Info("mesa tally submitted",
		"event", "tally_submitted",
		"module", "field-operations/tally-engine",
		"layer", "application",
		"station_id", station.StationID,
		"mesa", cmd.Mesa,
		"witness_id", caller.UserID,
	)
	return result, nil
}

// validateVotes requires exactly the roster's candidate set: no unknown
// IDs, no missing ones, no negative counts.
func (uc TallyUseCase) validateVotes(ctx context.Context, cmd SubmitTallyCommand) (map[string]int, error) {
	if cmd.VotoBlanco < 0 || cmd.VotoNulo < 0 {
		return nil, domainerrors.ErrNegativeVotes
	}
	candidates, err := uc.Roster.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domainerrors.ErrEmptyRoster
	}
	roster := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		roster[candidate.CandidateID] = true
	}
	votos := make(map[string]int, len(cmd.Votos))
	for candidateID, count := range cmd.Votos {
		if !roster[candidateID] {
			return nil, domainerrors.ErrUnknownCandidate
		}
		if count < 0 {
			return nil, domainerrors.ErrNegativeVotes
		}
		votos[candidateID] = count
	}
	if len(votos) != len(candidates) {
		return nil, domainerrors.ErrIncompleteVotes
	}
	return votos, nil
}

func (uc TallyUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func containsMesa(mesas []int, mesa int) bool {
	for _, claimed := range mesas {
		if claimed == mesa {
			return true
		}
	}
	return false
}
