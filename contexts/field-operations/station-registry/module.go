package stationregistry

import (
	"log/slog"

	httpadapter "centinela/contexts/field-operations/station-registry/adapters/http"
	"centinela/contexts/field-operations/station-registry/adapters/memory"
	"centinela/contexts/field-operations/station-registry/application/commands"
	"centinela/contexts/field-operations/station-registry/application/queries"
	"centinela/contexts/field-operations/station-registry/domain/entities"
	"centinela/contexts/field-operations/station-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Stations ports.StationRepository
	Claims   ports.ClaimedTablesReader
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	stationUseCase := commands.StationUseCase{
		Stations: deps.Stations,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	stationQueries := queries.StationQueries{
		Stations: deps.Stations,
		Claims:   deps.Claims,
	}
	return Module{
		Handler: httpadapter.Handler{
			Stations: stationUseCase,
			Queries:  stationQueries,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Station, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Stations: store,
		Claims:   store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
