package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"centinela/contexts/field-operations/witness-assignment/domain/entities"
	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/ports"
)

// Store is an in-memory implementation of every witness-assignment port.
// One mutex guards all maps so the check-and-insert and release critical
// sections observe the same serialization Postgres gives via row locks.
type Store struct {
	mu           sync.Mutex
	witnesses    map[string]entities.Witness
	byEmail      map[string]string
	assignments  map[string]entities.Assignment
	audits       []entities.ReleaseAudit
	stations     map[string]ports.StationProjection
	surveyStates map[string]ports.SurveyState
	outbox       []outboxRow
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore(stations []ports.StationProjection) *Store {
	store := &Store{
		witnesses:    make(map[string]entities.Witness),
		byEmail:      make(map[string]string),
		assignments:  make(map[string]entities.Assignment),
		stations:     make(map[string]ports.StationProjection),
		surveyStates: make(map[string]ports.SurveyState),
	}
	for _, station := range stations {
		store.stations[station.StationID] = station
	}
	return store
}

// SeedStation registers a station projection after construction.
func (s *Store) SeedStation(station ports.StationProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[station.StationID] = station
}

// SetSurveyState fixes the survey answer for one (puesto, municipio, mesa).
func (s *Store) SetSurveyState(puesto, municipio string, mesa int, state ports.SurveyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveyStates[surveyKey(puesto, municipio, mesa)] = state
}

func surveyKey(puesto, municipio string, mesa int) string {
	return fmt.Sprintf("%s|%s|%d", strings.ToLower(strings.TrimSpace(puesto)), strings.ToLower(strings.TrimSpace(municipio)), mesa)
}

func (s *Store) GetWitness(_ context.Context, witnessID string) (entities.Witness, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	witness, ok := s.witnesses[witnessID]
	if !ok {
		return entities.Witness{}, domainerrors.ErrWitnessNotFound
	}
	return witness, nil
}

func (s *Store) ListWitnesses(_ context.Context, createdBy string) ([]entities.Witness, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	witnesses := make([]entities.Witness, 0, len(s.witnesses))
	for _, witness := range s.witnesses {
		if createdBy != "" && witness.CreadoPorID != createdBy {
			continue
		}
		witnesses = append(witnesses, witness)
	}
	sort.Slice(witnesses, func(i, j int) bool {
		return witnesses[i].CreadoEn.Before(witnesses[j].CreadoEn)
	})
	return witnesses, nil
}

func (s *Store) GetAssignmentByWitness(_ context.Context, witnessID string) (entities.Assignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assignment := range s.assignments {
		if assignment.WitnessID == witnessID {
			return cloneAssignment(assignment), true, nil
		}
	}
	return entities.Assignment{}, false, nil
}

func (s *Store) ListAssignmentsByStation(_ context.Context, stationID string) ([]entities.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignmentsByStationLocked(stationID), nil
}

func (s *Store) assignmentsByStationLocked(stationID string) []entities.Assignment {
	assignments := make([]entities.Assignment, 0)
	for _, assignment := range s.assignments {
		if assignment.StationID == stationID {
			assignments = append(assignments, cloneAssignment(assignment))
		}
	}
	return assignments
}

func (s *Store) CreateWitnessWithAssignment(_ context.Context, witness entities.Witness, assignment entities.Assignment) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[witness.Correo]; taken {
		return nil, domainerrors.ErrEmailTaken
	}

	claimed := make(map[int]bool)
	for _, existing := range s.assignmentsByStationLocked(assignment.StationID) {
		for _, mesa := range existing.Mesas {
			claimed[mesa] = true
		}
	}
	conflicts := make([]int, 0)
	for _, mesa := range assignment.Mesas {
		if claimed[mesa] {
			conflicts = append(conflicts, mesa)
		}
	}
	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		return conflicts, nil
	}

	s.witnesses[witness.WitnessID] = witness
	s.byEmail[witness.Correo] = witness.WitnessID
	s.assignments[assignment.AssignmentID] = cloneAssignment(assignment)
	return nil, nil
}

func (s *Store) ReleaseMesa(_ context.Context, witnessID string, mesa int, audit entities.ReleaseAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var assignment entities.Assignment
	found := false
	for _, candidate := range s.assignments {
		if candidate.WitnessID == witnessID {
			assignment = candidate
			found = true
			break
		}
	}
	if !found {
		return domainerrors.ErrNoAssignment
	}
	if !assignment.HasMesa(mesa) {
		return domainerrors.ErrMesaNoLongerAssigned
	}

	remaining := make([]int, 0, len(assignment.Mesas)-1)
	for _, claimed := range assignment.Mesas {
		if claimed != mesa {
			remaining = append(remaining, claimed)
		}
	}
	assignment.Mesas = remaining
	s.assignments[assignment.AssignmentID] = assignment
	s.audits = append(s.audits, audit)
	return nil
}

// ListAudits exposes the recorded release audits for assertions and the
// in-memory audit query wiring, newest first.
func (s *Store) ListAudits(stationID, witnessID string) []entities.ReleaseAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	audits := make([]entities.ReleaseAudit, 0, len(s.audits))
	for _, audit := range s.audits {
		if stationID != "" && audit.StationID != stationID {
			continue
		}
		if witnessID != "" && audit.WitnessID != witnessID {
			continue
		}
		audits = append(audits, audit)
	}
	sort.Slice(audits, func(i, j int) bool {
		return audits[i].CreadoEn.After(audits[j].CreadoEn)
	})
	return audits
}

func (s *Store) GetStation(_ context.Context, stationID string) (ports.StationProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	station, ok := s.stations[stationID]
	if !ok {
		return ports.StationProjection{}, domainerrors.ErrStationNotFound
	}
	return station, nil
}

func (s *Store) TableResultState(_ context.Context, puesto string, municipio string, mesa int) (ports.SurveyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.surveyStates[surveyKey(puesto, municipio, mesa)]; ok {
		return state, nil
	}
	return ports.SurveyStateNone, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{message: ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt,
	}})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		pending = append(pending, row.message)
		if len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrConflict
}

func cloneAssignment(assignment entities.Assignment) entities.Assignment {
	clone := assignment
	clone.Mesas = append([]int(nil), assignment.Mesas...)
	return clone
}

// PlainHasher stores passwords with a reversible prefix. Test-only stand-in
// for the bcrypt adapter.
type PlainHasher struct{}

func (PlainHasher) Hash(plain string) (string, error) {
	return "plain$" + plain, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var (
	_ ports.WitnessRepository  = (*Store)(nil)
	_ ports.StationReader      = (*Store)(nil)
	_ ports.SurveyStatusReader = (*Store)(nil)
	_ ports.OutboxWriter       = (*Store)(nil)
	_ ports.OutboxRepository   = (*Store)(nil)
	_ ports.PasswordHasher     = PlainHasher{}
	_ ports.Clock              = SystemClock{}
	_ ports.IDGenerator        = UUIDGenerator{}
)
