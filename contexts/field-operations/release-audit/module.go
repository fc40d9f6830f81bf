package releaseaudit

import (
	"log/slog"

	httpadapter "centinela/contexts/field-operations/release-audit/adapters/http"
	"centinela/contexts/field-operations/release-audit/adapters/memory"
	"centinela/contexts/field-operations/release-audit/application/queries"
	"centinela/contexts/field-operations/release-audit/domain/entities"
	"centinela/contexts/field-operations/release-audit/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Audits ports.AuditRepository
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Queries: queries.AuditQueries{Audits: deps.Audits},
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.ReleaseRecord, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{Audits: store, Logger: logger})
	module.Store = store
	return module
}
