package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/ports"
)

// Store is the in-memory implementation of every tally-engine port. The
// single mutex makes SubmitResult's check-and-upsert atomic the same way
// the Postgres adapter's row lock does.
type Store struct {
	mu          sync.Mutex
	results     map[string]entities.MesaResult
	assignments map[string]ports.AssignmentView
	stations    map[string]ports.StationView
	candidates  []entities.Candidate
}

func NewStore(stations []ports.StationView, candidates []entities.Candidate) *Store {
	store := &Store{
		results:     make(map[string]entities.MesaResult),
		assignments: make(map[string]ports.AssignmentView),
		stations:    make(map[string]ports.StationView),
		candidates:  append([]entities.Candidate(nil), candidates...),
	}
	for _, station := range stations {
		store.stations[station.StationID] = station
	}
	return store
}

// SeedAssignment registers a witness claim projection.
func (s *Store) SeedAssignment(view ports.AssignmentView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[view.WitnessID] = view
}

// RemoveMesa drops one mesa from a witness's projection, mirroring a
// release in the owning module.
func (s *Store) RemoveMesa(witnessID string, mesa int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.assignments[witnessID]
	if !ok {
		return
	}
	remaining := make([]int, 0, len(view.Mesas))
	for _, claimed := range view.Mesas {
		if claimed != mesa {
			remaining = append(remaining, claimed)
		}
	}
	view.Mesas = remaining
	s.assignments[witnessID] = view
}

func resultKey(stationID string, mesa int) string {
	return fmt.Sprintf("%s|%d", stationID, mesa)
}

func (s *Store) GetResult(_ context.Context, stationID string, mesa int) (entities.MesaResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[resultKey(strings.TrimSpace(stationID), mesa)]
	if !ok {
		return entities.MesaResult{}, false, nil
	}
	return cloneResult(result), true, nil
}

func (s *Store) ListResultsByWitness(_ context.Context, witnessID string) ([]entities.MesaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]entities.MesaResult, 0)
	for _, result := range s.results {
		if result.TestigoID == witnessID {
			results = append(results, cloneResult(result))
		}
	}
	sortResults(results)
	return results, nil
}

func (s *Store) ListResults(_ context.Context, municipio string) ([]entities.MesaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]entities.MesaResult, 0)
	for _, result := range s.results {
		if municipio != "" && !strings.EqualFold(result.Municipio, municipio) {
			continue
		}
		results = append(results, cloneResult(result))
	}
	sortResults(results)
	return results, nil
}

func (s *Store) SubmitResult(_ context.Context, result entities.MesaResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := resultKey(result.StationID, result.Mesa)
	if existing, ok := s.results[key]; ok && existing.Submitted() {
		return domainerrors.ErrAlreadySubmitted
	}
	s.results[key] = cloneResult(result)
	return nil
}

func (s *Store) GetAssignmentByWitness(_ context.Context, witnessID string) (ports.AssignmentView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.assignments[witnessID]
	if !ok {
		return ports.AssignmentView{}, false, nil
	}
	clone := view
	clone.Mesas = append([]int(nil), view.Mesas...)
	return clone, true, nil
}

func (s *Store) GetStation(_ context.Context, stationID string) (ports.StationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	station, ok := s.stations[strings.TrimSpace(stationID)]
	if !ok {
		return ports.StationView{}, domainerrors.ErrStationNotFound
	}
	return station, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := append([]entities.Candidate(nil), s.candidates...)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Nombre < candidates[j].Nombre
	})
	return candidates, nil
}

func cloneResult(result entities.MesaResult) entities.MesaResult {
	clone := result
	clone.Votos = make(map[string]int, len(result.Votos))
	for candidateID, count := range result.Votos {
		clone.Votos[candidateID] = count
	}
	if result.EnviadoEn != nil {
		enviado := *result.EnviadoEn
		clone.EnviadoEn = &enviado
	}
	return clone
}

func sortResults(results []entities.MesaResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].StationID != results[j].StationID {
			return results[i].StationID < results[j].StationID
		}
		return results[i].Mesa < results[j].Mesa
	})
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var (
	_ ports.TallyRepository  = (*Store)(nil)
	_ ports.AssignmentReader = (*Store)(nil)
	_ ports.StationReader    = (*Store)(nil)
	_ ports.CandidateRoster  = (*Store)(nil)
	_ ports.Clock            = SystemClock{}
	_ ports.IDGenerator      = UUIDGenerator{}
)
