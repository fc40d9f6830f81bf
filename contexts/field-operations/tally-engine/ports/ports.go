package ports

import (
	"context"
	"time"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
)

type TallyRepository interface {
	GetResult(ctx context.Context, stationID string, mesa int) (entities.MesaResult, bool, error)
	ListResultsByWitness(ctx context.Context, witnessID string) ([]entities.MesaResult, error)
	ListResults(ctx context.Context, municipio string) ([]entities.MesaResult, error)

	// SubmitResult performs the one-shot transition: inside one transaction
	// it locks the (station, mesa) tally row if present, re-verifies it is
	// not ENVIADA, then upserts the row with Estado ENVIADA. A row already
	// ENVIADA makes the call fail with ErrAlreadySubmitted; concurrent
	// submissions for the same mesa serialize on the lock so exactly one
	// wins.
	SubmitResult(ctx context.Context, result entities.MesaResult) error
}

// AssignmentView is the witness claim projection this module reads from
// witness-assignment.
type AssignmentView struct {
	WitnessID string
	StationID string
	Mesas     []int
}

type AssignmentReader interface {
	GetAssignmentByWitness(ctx context.Context, witnessID string) (AssignmentView, bool, error)
}

// StationView mirrors the registry fields tallies need.
type StationView struct {
	StationID  string
	Puesto     string
	Municipio  string
	TotalMesas int
}

type StationReader interface {
	GetStation(ctx context.Context, stationID string) (StationView, error)
}

// CandidateRoster lists the candidates a tally must cover, ordered by name.
type CandidateRoster interface {
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
