package ports

import (
	"context"

	"centinela/contexts/field-operations/release-audit/domain/entities"
)

// AuditFilter narrows the log by station, witness or both. Empty fields
// match everything.
type AuditFilter struct {
	StationID string
	WitnessID string
}

type AuditRepository interface {
	// ListReleases returns matching records newest first.
	ListReleases(ctx context.Context, filter AuditFilter) ([]entities.ReleaseRecord, error)
}
