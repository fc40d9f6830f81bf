package ports

import (
	"context"
	"time"

	"centinela/contexts/field-operations/station-registry/domain/entities"
)

type StationRepository interface {
	SaveStation(ctx context.Context, station entities.Station) error
	GetStation(ctx context.Context, stationID string) (entities.Station, error)
	ListStations(ctx context.Context, municipio string) ([]entities.Station, error)
	DeleteStation(ctx context.Context, stationID string) error
	StationExists(ctx context.Context, identity entities.Identity) (bool, error)
}

// ClaimedTablesReader exposes the witness-assignment module's claimed-tables
// view without importing it. Backed by the assignments table in postgres
// wiring and by the in-memory assignment store in tests.
type ClaimedTablesReader interface {
	ListClaimedTables(ctx context.Context, stationID string) ([]int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
