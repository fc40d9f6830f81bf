package httpadapter

import (
	"context"
	"log/slog"

	"centinela/contexts/field-operations/witness-assignment/application/commands"
	"centinela/contexts/field-operations/witness-assignment/application/queries"
	httptransport "centinela/contexts/field-operations/witness-assignment/transport/http"
	"centinela/internal/shared/actor"
)

type Handler struct {
	Witnesses commands.WitnessUseCase
	Queries   queries.WitnessQueries
	Logger    *slog.Logger
}

func (h Handler) CreateWitnessHandler(
	ctx context.Context,
	caller actor.Actor,
	req httptransport.CreateWitnessRequest,
) (httptransport.WitnessResponse, error) {
	result, err := h.Witnesses.CreateWitness(ctx, caller, commands.CreateWitnessCommand{
		PrimerNombre:    req.PrimerNombre,
		SegundoNombre:   req.SegundoNombre,
		PrimerApellido:  req.PrimerApellido,
		SegundoApellido: req.SegundoApellido,
		Telefono:        req.Telefono,
		Correo:          req.Correo,
		Password:        req.Password,
		PuestoID:        req.PuestoID,
		Mesas:           req.Mesas,
	})
	if err != nil {
		return httptransport.WitnessResponse{}, err
	}
	return httptransport.WitnessResponse{
		ID:           result.Witness.WitnessID,
		Nombre:       result.Witness.Nombre,
		Correo:       result.Witness.Correo,
		Telefono:     result.Witness.Telefono,
		Municipio:    result.Municipio,
		PuestoID:     result.Assignment.StationID,
		PuestoNombre: result.PuestoNombre,
		Mesas:        result.Assignment.Mesas,
	}, nil
}

func (h Handler) ListWitnessesHandler(ctx context.Context, caller actor.Actor) (httptransport.WitnessListResponse, error) {
	views, err := h.Queries.ListWitnesses(ctx, caller)
	if err != nil {
		return httptransport.WitnessListResponse{}, err
	}
	items := make([]httptransport.WitnessResponse, 0, len(views))
	for _, view := range views {
		items = append(items, httptransport.WitnessResponse{
			ID:           view.WitnessID,
			Nombre:       view.Nombre,
			Correo:       view.Correo,
			Telefono:     view.Telefono,
			Municipio:    view.Municipio,
			PuestoID:     view.PuestoID,
			PuestoNombre: view.PuestoNombre,
			Mesas:        view.Mesas,
		})
	}
	return httptransport.WitnessListResponse{Items: items}, nil
}

func (h Handler) ReleaseMesaHandler(
	ctx context.Context,
	caller actor.Actor,
	witnessID string,
	req httptransport.ReleaseMesaRequest,
) (httptransport.DetailResponse, error) {
	err := h.Witnesses.ReleaseMesa(ctx, caller, witnessID, commands.ReleaseMesaCommand{
		Mesa:   req.Mesa,
		Motivo: req.Motivo,
	})
	if err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "Mesa liberada correctamente."}, nil
}
