package ports

import (
	"context"
	"encoding/json"
	"time"

	"centinela/contexts/field-operations/witness-assignment/domain/entities"
)

type WitnessRepository interface {
	GetWitness(ctx context.Context, witnessID string) (entities.Witness, error)
	ListWitnesses(ctx context.Context, createdBy string) ([]entities.Witness, error)
	GetAssignmentByWitness(ctx context.Context, witnessID string) (entities.Assignment, bool, error)
	ListAssignmentsByStation(ctx context.Context, stationID string) ([]entities.Assignment, error)

	// CreateWitnessWithAssignment performs the serialized check-and-insert:
	// inside one transaction it re-reads the station's assignments under a
	// lock, recomputes the conflict set against the requested mesas, and
	// only inserts the witness and assignment when the set is empty. A
	// non-empty return names the conflicting mesas sorted ascending.
	CreateWitnessWithAssignment(ctx context.Context, witness entities.Witness, assignment entities.Assignment) ([]int, error)

	// ReleaseMesa locks the witness's assignment row, re-verifies the mesa
	// is still claimed, removes it and appends the audit row, all in one
	// transaction.
	ReleaseMesa(ctx context.Context, witnessID string, mesa int, audit entities.ReleaseAudit) error
}

// StationProjection is the read-only station view this module needs from
// the registry.
type StationProjection struct {
	StationID  string
	Puesto     string
	Municipio  string
	TotalMesas int
}

type StationReader interface {
	GetStation(ctx context.Context, stationID string) (StationProjection, error)
}

// SurveyState summarizes external survey/validation records for one
// (station, mesa) pair.
type SurveyState string

const (
	SurveyStateNone       SurveyState = "none"
	SurveyStateRegistered SurveyState = "registered"
	SurveyStateFinalized  SurveyState = "finalized"
)

// SurveyStatusReader consults the survey subsystem before a release:
// finalized (validated/confirmed) results block the release outright.
type SurveyStatusReader interface {
	TableResultState(ctx context.Context, puesto string, municipio string, mesa int) (SurveyState, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
