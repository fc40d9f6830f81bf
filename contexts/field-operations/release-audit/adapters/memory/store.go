package memory

import (
	"context"
	"sort"
	"sync"

	"centinela/contexts/field-operations/release-audit/domain/entities"
	"centinela/contexts/field-operations/release-audit/ports"
)

// Store is the in-memory release log used by tests and local wiring.
type Store struct {
	mu      sync.RWMutex
	records []entities.ReleaseRecord
}

func NewStore(seed []entities.ReleaseRecord) *Store {
	return &Store{records: append([]entities.ReleaseRecord(nil), seed...)}
}

// Append adds a record, mirroring the write the assignment module makes.
func (s *Store) Append(record entities.ReleaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

func (s *Store) ListReleases(_ context.Context, filter ports.AuditFilter) ([]entities.ReleaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]entities.ReleaseRecord, 0, len(s.records))
	for _, record := range s.records {
		if filter.StationID != "" && record.StationID != filter.StationID {
			continue
		}
		if filter.WitnessID != "" && record.WitnessID != filter.WitnessID {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreadoEn.After(records[j].CreadoEn)
	})
	return records, nil
}

var _ ports.AuditRepository = (*Store)(nil)
