package tallyengine

import (
	"log/slog"

	httpadapter "centinela/contexts/field-operations/tally-engine/adapters/http"
	"centinela/contexts/field-operations/tally-engine/adapters/memory"
	"centinela/contexts/field-operations/tally-engine/application/commands"
	"centinela/contexts/field-operations/tally-engine/application/queries"
	"centinela/contexts/field-operations/tally-engine/domain/entities"
	"centinela/contexts/field-operations/tally-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Tallies     ports.TallyRepository
	Assignments ports.AssignmentReader
	Stations    ports.StationReader
	Roster      ports.CandidateRoster
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tallyUseCase := commands.TallyUseCase{
		Tallies:     deps.Tallies,
		Assignments: deps.Assignments,
		Stations:    deps.Stations,
		Roster:      deps.Roster,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	tallyQueries := queries.TallyQueries{
		Tallies:     deps.Tallies,
		Assignments: deps.Assignments,
		Stations:    deps.Stations,
		Roster:      deps.Roster,
	}
	return Module{
		Handler: httpadapter.Handler{
			Tallies: tallyUseCase,
			Queries: tallyQueries,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(stations []ports.StationView, candidates []entities.Candidate, logger *slog.Logger) Module {
	store := memory.NewStore(stations, candidates)
	module := NewModule(Dependencies{
		Tallies:     store,
		Assignments: store,
		Stations:    store,
		Roster:      store,
		Clock:       memory.SystemClock{},
		IDGen:       memory.UUIDGenerator{},
		Logger:      logger,
	})
	module.Store = store
	return module
}
