package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"centinela/contexts/field-operations/release-audit/application/queries"
	httptransport "centinela/contexts/field-operations/release-audit/transport/http"
	"centinela/internal/shared/actor"
)

type Handler struct {
	Queries queries.AuditQueries
	Logger  *slog.Logger
}

func (h Handler) ListReleasesHandler(ctx context.Context, caller actor.Actor, stationID, witnessID string) (httptransport.ReleaseListResponse, error) {
	records, err := h.Queries.ListReleases(ctx, caller, stationID, witnessID)
	if err != nil {
		return httptransport.ReleaseListResponse{}, err
	}
	items := make([]httptransport.ReleaseRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.ReleaseRecordResponse{
			ID:            record.AuditID,
			TestigoID:     record.WitnessID,
			TestigoNombre: record.WitnessNombre,
			PuestoID:      record.StationID,
			PuestoNombre:  record.PuestoNombre,
			Mesa:          record.Mesa,
			LiberadoPorID: record.LiberadoPorID,
			RolLiberador:  record.RolLiberador,
			Motivo:        record.Motivo,
			CreadoEn:      record.CreadoEn.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ReleaseListResponse{Items: items}, nil
}
