package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "centinela/contexts/field-operations/witness-assignment/application"
	"centinela/contexts/field-operations/witness-assignment/domain/entities"
	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/domain/policy"
	"centinela/contexts/field-operations/witness-assignment/ports"
	"centinela/internal/shared/actor"
)

// CreateWitnessCommand is the write-model input for registering a witness
// together with its initial table claim.
type CreateWitnessCommand struct {
	PrimerNombre    string
	SegundoNombre   string
	PrimerApellido  string
	SegundoApellido string
	Telefono        string
	Correo          string
	Password        string
	PuestoID        string
	Mesas           []int
}

// CreateWitnessResult is the created witness plus its assignment view.
type CreateWitnessResult struct {
	Witness      entities.Witness
	Assignment   entities.Assignment
	PuestoNombre string
	Municipio    string
}

// WitnessUseCase orchestrates witness registration and table releases while
// enforcing the disjoint-claims invariant per station.
type WitnessUseCase struct {
	Witnesses ports.WitnessRepository
	Stations  ports.StationReader
	Surveys   ports.SurveyStatusReader
	Hasher    ports.PasswordHasher
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CreateWitness validates the request, pre-checks the station's claimed
// tables and delegates the serialized check-and-insert to the repository.
// The repository re-check closes the race against concurrent creations for
// the same station.
func (uc WitnessUseCase) CreateWitness(ctx context.Context, caller actor.Actor, cmd CreateWitnessCommand) (CreateWitnessResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("witness create processing started",
		"event", "witness_create_started",
		"module", "field-operations/witness-assignment",
		"layer", "application",
		"user_id", caller.UserID,
		"station_id", strings.TrimSpace(cmd.PuestoID),
	)

	if !policy.CanCreateWitness(caller) {
		return CreateWitnessResult{}, domainerrors.ErrForbidden
	}
	if caller.IsCoordinator() && strings.TrimSpace(caller.Municipio) == "" {
		return CreateWitnessResult{}, domainerrors.ErrCoordinatorWithoutMunicipio
	}

	primerNombre := strings.TrimSpace(cmd.PrimerNombre)
	primerApellido := strings.TrimSpace(cmd.PrimerApellido)
	telefono := strings.TrimSpace(cmd.Telefono)
	correo := strings.ToLower(strings.TrimSpace(cmd.Correo))
	if primerNombre == "" || primerApellido == "" || telefono == "" || correo == "" || cmd.Password == "" {
		return CreateWitnessResult{}, domainerrors.ErrInvalidWitnessInput
	}

	station, err := uc.Stations.GetStation(ctx, strings.TrimSpace(cmd.PuestoID))
	if err != nil {
		return CreateWitnessResult{}, err
	}
	if caller.IsCoordinator() && !actor.SameMunicipio(station.Municipio, caller.Municipio) {
		return CreateWitnessResult{}, domainerrors.ErrStationOutsideMunicipio
	}
	if station.TotalMesas < 1 {
		return CreateWitnessResult{}, domainerrors.ErrInvalidMesasValue
	}

	mesas, err := validateMesas(cmd.Mesas, station.TotalMesas)
	if err != nil {
		return CreateWitnessResult{}, err
	}

	existing, err := uc.Witnesses.ListAssignmentsByStation(ctx, station.StationID)
	if err != nil {
		return CreateWitnessResult{}, err
	}
	if conflicts := conflictingMesas(mesas, existing); len(conflicts) > 0 {
		logger.Warn("witness create conflicts detected",
			"event", "witness_create_conflict",
			"module", "field-operations/witness-assignment",
			"layer", "application",
			"station_id", station.StationID,
			"conflicts", conflicts,
		)
		return CreateWitnessResult{}, domainerrors.MesasAsignadasError{Mesas: conflicts}
	}

	passwordHash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return CreateWitnessResult{}, err
	}

	witnessID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateWitnessResult{}, err
	}
	assignmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateWitnessResult{}, err
	}
	now := uc.now()

	witness := entities.Witness{
		WitnessID:    witnessID,
		Nombre:       fullName(primerNombre, cmd.SegundoNombre, primerApellido, cmd.SegundoApellido),
		Correo:       correo,
		Telefono:     telefono,
		PasswordHash: passwordHash,
		Municipio:    strings.TrimSpace(station.Municipio),
		CreadoPorID:  strings.TrimSpace(caller.UserID),
		CreadoEn:     now,
	}
	assignment := entities.Assignment{
		AssignmentID: assignmentID,
		WitnessID:    witnessID,
		StationID:    station.StationID,
		Mesas:        mesas,
		CreadoPorID:  strings.TrimSpace(caller.UserID),
		CreadoEn:     now,
	}

	conflicts, err := uc.Witnesses.CreateWitnessWithAssignment(ctx, witness, assignment)
	if err != nil {
		return CreateWitnessResult{}, err
	}
	if len(conflicts) > 0 {
		return CreateWitnessResult{}, domainerrors.MesasAsignadasError{Mesas: conflicts}
	}

	logger.Info("witness created",
		"event", "witness_created",
		"module", "field-operations/witness-assignment",
		"layer", "application",
		"witness_id", witness.WitnessID,
		"station_id", station.StationID,
		"mesas", assignment.Mesas,
		"user_id", caller.UserID,
	)
	return CreateWitnessResult{
		Witness:      witness,
		Assignment:   assignment,
		PuestoNombre: station.Puesto,
		Municipio:    station.Municipio,
	}, nil
}

func (uc WitnessUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

// validateMesas normalizes the requested table set: non-empty, no
// duplicates, all within 1..totalMesas. Returns the set sorted ascending.
func validateMesas(requested []int, totalMesas int) ([]int, error) {
	if len(requested) == 0 {
		return nil, domainerrors.ErrMesasRequired
	}
	seen := make(map[int]bool, len(requested))
	mesas := make([]int, 0, len(requested))
	for _, mesa := range requested {
		if seen[mesa] {
			return nil, domainerrors.ErrMesasDuplicated
		}
		seen[mesa] = true
		if mesa < 1 || mesa > totalMesas {
			return nil, domainerrors.ErrMesasOutOfRange
		}
		mesas = append(mesas, mesa)
	}
	sort.Ints(mesas)
	return mesas, nil
}

// conflictingMesas intersects the requested set with the union of every
// existing assignment's claims, sorted ascending.
func conflictingMesas(requested []int, assignments []entities.Assignment) []int {
	claimed := make(map[int]bool)
	for _, assignment := range assignments {
		for _, mesa := range assignment.Mesas {
			claimed[mesa] = true
		}
	}
	conflicts := make([]int, 0)
	for _, mesa := range requested {
		if claimed[mesa] {
			conflicts = append(conflicts, mesa)
		}
	}
	sort.Ints(conflicts)
	return conflicts
}

func fullName(primerNombre, segundoNombre, primerApellido, segundoApellido string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{primerNombre, segundoNombre, primerApellido, segundoApellido} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
