package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"centinela/contexts/field-operations/tally-engine/application/commands"
	"centinela/contexts/field-operations/tally-engine/application/queries"
	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	httptransport "centinela/contexts/field-operations/tally-engine/transport/http"
	"centinela/internal/shared/actor"
)

type Handler struct {
	Tallies commands.TallyUseCase
	Queries queries.TallyQueries
	Logger  *slog.Logger
}

func (h Handler) SubmitTallyHandler(
	ctx context.Context,
	caller actor.Actor,
	stationID string,
	mesa int,
	req httptransport.SubmitTallyRequest,
) (httptransport.DetailResponse, error) {
	// Repeated candidate ids are only detectable here: once folded into
	// the map they would silently overwrite each other.
	votos := make(map[string]int, len(req.Candidatos))
	for _, candidato := range req.Candidatos {
		if _, seen := votos[candidato.ID]; seen {
			return httptransport.DetailResponse{}, domainerrors.ErrRepeatedCandidate
		}
		votos[candidato.ID] = candidato.Votos
	}

	_, err := h.Tallies.SubmitTally(ctx, caller, commands.SubmitTallyCommand{
		StationID:  stationID,
		Mesa:       mesa,
		Votos:      votos,
		VotoBlanco: req.VotoBlanco,
		VotoNulo:   req.VotoNulo,
	})
	if err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "Resultados enviados correctamente."}, nil
}

// ListTalliesHandler serves the witness worklist or, for staff roles, the
// submitted tallies.
func (h Handler) ListTalliesHandler(ctx context.Context, caller actor.Actor) (any, error) {
	if caller.IsWitness() {
		statuses, err := h.Queries.ListMyMesas(ctx, caller)
		if err != nil {
			return nil, err
		}
		items := make([]httptransport.MesaStatusResponse, 0, len(statuses))
		for _, status := range statuses {
			items = append(items, httptransport.MesaStatusResponse{
				PuestoID:     status.StationID,
				PuestoNombre: status.PuestoNombre,
				Mesa:         status.Mesa,
				Estado:       status.Estado,
			})
		}
		return httptransport.MesaListResponse{Items: items}, nil
	}

	results, err := h.Queries.ListResults(ctx, caller)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.MesaResultResponse, 0, len(results))
	for _, result := range results {
		items = append(items, toResultResponse(result))
	}
	return httptransport.ResultListResponse{Items: items}, nil
}

func (h Handler) MesaFormHandler(ctx context.Context, caller actor.Actor, stationID string, mesa int) (httptransport.MesaFormResponse, error) {
	form, err := h.Queries.GetMesaForm(ctx, caller, stationID, mesa)
	if err != nil {
		return httptransport.MesaFormResponse{}, err
	}
	candidates := make([]httptransport.CandidateResponse, 0, len(form.Candidates))
	for _, candidate := range form.Candidates {
		candidates = append(candidates, httptransport.CandidateResponse{
			ID:      candidate.CandidateID,
			Nombre:  candidate.Nombre,
			Partido: candidate.Partido,
		})
	}
	resp := httptransport.MesaFormResponse{
		PuestoID:     form.StationID,
		PuestoNombre: form.PuestoNombre,
		Municipio:    form.Municipio,
		Mesa:         form.Mesa,
		Candidatos:   candidates,
		Votos:        map[string]int{},
		Estado:       entities.EstadoPendiente,
		Editable:     form.Editable,
	}
	if form.Result != nil {
		resp.Votos = form.Result.Votos
		resp.VotoBlanco = form.Result.VotoBlanco
		resp.VotoNulo = form.Result.VotoNulo
		resp.Estado = form.Result.Estado
	}
	return resp, nil
}

func toResultResponse(result entities.MesaResult) httptransport.MesaResultResponse {
	resp := httptransport.MesaResultResponse{
		ID:         result.ResultID,
		PuestoID:   result.StationID,
		Municipio:  result.Municipio,
		Mesa:       result.Mesa,
		Votos:      result.Votos,
		VotoBlanco: result.VotoBlanco,
		VotoNulo:   result.VotoNulo,
		TestigoID:  result.TestigoID,
		Estado:     result.Estado,
	}
	if result.EnviadoEn != nil {
		resp.EnviadoEn = result.EnviadoEn.UTC().Format(time.RFC3339)
	}
	return resp
}
