package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"centinela/contexts/field-operations/station-registry/domain/entities"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/contexts/field-operations/station-registry/ports"

	"github.com/google/uuid"
)

// Store is the in-memory twin of the postgres repository, used by tests
// and in-memory wiring.
type Store struct {
	mu sync.RWMutex

	stations map[string]entities.Station
	claimed  map[string][]int
}

func NewStore(seed []entities.Station) *Store {
	stations := make(map[string]entities.Station, len(seed))
	for _, station := range seed {
		stations[station.StationID] = station
	}
	return &Store{
		stations: stations,
		claimed:  make(map[string][]int),
	}
}

// SetClaimedTables seeds the claimed-tables view normally served by the
// witness-assignment module.
func (s *Store) SetClaimedTables(stationID string, mesas []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimed[strings.TrimSpace(stationID)] = append([]int(nil), mesas...)
}

func (s *Store) SaveStation(_ context.Context, station entities.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity := station.Identity()
	for _, existing := range s.stations {
		if existing.StationID != station.StationID && existing.Identity() == identity {
			return domainerrors.ErrStationExists
		}
	}
	s.stations[strings.TrimSpace(station.StationID)] = station
	return nil
}

func (s *Store) GetStation(_ context.Context, stationID string) (entities.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	station, ok := s.stations[strings.TrimSpace(stationID)]
	if !ok {
		return entities.Station{}, domainerrors.ErrStationNotFound
	}
	return station, nil
}

func (s *Store) ListStations(_ context.Context, municipio string) ([]entities.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	municipio = strings.TrimSpace(municipio)
	items := make([]entities.Station, 0, len(s.stations))
	for _, station := range s.stations {
		if municipio != "" && !strings.EqualFold(strings.TrimSpace(station.Municipio), municipio) {
			continue
		}
		items = append(items, station)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreadoEn.After(items[j].CreadoEn)
	})
	return items, nil
}

func (s *Store) DeleteStation(_ context.Context, stationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(stationID)
	if _, ok := s.stations[key]; !ok {
		return domainerrors.ErrStationNotFound
	}
	delete(s.stations, key)
	return nil
}

func (s *Store) StationExists(_ context.Context, identity entities.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, station := range s.stations {
		if station.Identity() == identity {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListClaimedTables(_ context.Context, stationID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.claimed[strings.TrimSpace(stationID)]...), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.StationRepository = (*Store)(nil)
var _ ports.ClaimedTablesReader = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
