package queries

import (
	"context"
	"strings"

	"centinela/contexts/field-operations/release-audit/domain/entities"
	domainerrors "centinela/contexts/field-operations/release-audit/domain/errors"
	"centinela/contexts/field-operations/release-audit/ports"
	"centinela/internal/shared/actor"
)

type AuditQueries struct {
	Audits ports.AuditRepository
}

// ListReleases serves the release log to administrators and coordinators,
// newest first, optionally filtered by station and witness.
func (q AuditQueries) ListReleases(ctx context.Context, caller actor.Actor, stationID, witnessID string) ([]entities.ReleaseRecord, error) {
	if !caller.IsAdmin() && !caller.IsCoordinator() {
		return nil, domainerrors.ErrForbidden
	}
	return q.Audits.ListReleases(ctx, ports.AuditFilter{
		StationID: strings.TrimSpace(stationID),
		WitnessID: strings.TrimSpace(witnessID),
	})
}
