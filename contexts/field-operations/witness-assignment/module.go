package witnessassignment

import (
	"log/slog"

	httpadapter "centinela/contexts/field-operations/witness-assignment/adapters/http"
	"centinela/contexts/field-operations/witness-assignment/adapters/memory"
	"centinela/contexts/field-operations/witness-assignment/application/commands"
	"centinela/contexts/field-operations/witness-assignment/application/queries"
	"centinela/contexts/field-operations/witness-assignment/application/workers"
	"centinela/contexts/field-operations/witness-assignment/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Witnesses ports.WitnessRepository
	Stations  ports.StationReader
	Surveys   ports.SurveyStatusReader
	Hasher    ports.PasswordHasher
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	witnessUseCase := commands.WitnessUseCase{
		Witnesses: deps.Witnesses,
		Stations:  deps.Stations,
		Surveys:   deps.Surveys,
		Hasher:    deps.Hasher,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	witnessQueries := queries.WitnessQueries{
		Witnesses: deps.Witnesses,
		Stations:  deps.Stations,
	}
	return Module{
		Handler: httpadapter.Handler{
			Witnesses: witnessUseCase,
			Queries:   witnessQueries,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(stations []ports.StationProjection, logger *slog.Logger) Module {
	store := memory.NewStore(stations)
	module := NewModule(Dependencies{
		Witnesses: store,
		Stations:  store,
		Surveys:   store,
		Hasher:    memory.PlainHasher{},
		Outbox:    store,
		Clock:     memory.SystemClock{},
		IDGen:     memory.UUIDGenerator{},
		Logger:    logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the worker that drains pending release events.
func NewOutboxRelay(outbox ports.OutboxRepository, publisher ports.EventPublisher, clock ports.Clock, batchSize int, logger *slog.Logger) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: batchSize,
		Logger:    logger,
	}
}
