package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidWitnessInput         = errors.New("datos del testigo incompletos o inválidos")
	ErrForbidden                   = errors.New("no tienes permiso para esta operación")
	ErrCoordinatorWithoutMunicipio = errors.New("el coordinador no tiene municipio asignado")
	ErrStationOutsideMunicipio     = errors.New("el puesto no pertenece a tu municipio")
	ErrReleaseOutsideMunicipio     = errors.New("no puedes liberar mesas fuera de tu municipio")
	ErrStationNotFound             = errors.New("puesto de votación no encontrado")
	ErrInvalidMesasValue           = errors.New("el puesto no tiene un número de mesas válido")
	ErrMesasRequired               = errors.New("debes seleccionar al menos una mesa")
	ErrMesasDuplicated             = errors.New("las mesas no pueden repetirse")
	ErrMesasOutOfRange             = errors.New("las mesas seleccionadas no son válidas para este puesto")
	ErrEmailTaken                  = errors.New("el correo ya está registrado")
	ErrWitnessNotFound             = errors.New("testigo no encontrado")
	ErrNoAssignment                = errors.New("el testigo no tiene mesas asignadas")
	ErrMesaOutOfRange              = errors.New("la mesa indicada no es válida para este puesto")
	ErrMesaNotAssigned             = errors.New("la mesa indicada no está asignada a este testigo")
	ErrMesaNoLongerAssigned        = errors.New("la mesa indicada ya no está asignada a este testigo")
	ErrMotivoRequired              = errors.New("el motivo es obligatorio")
	ErrMesaFinalized               = errors.New("la mesa indicada está confirmada o cerrada y no se puede liberar")
	ErrMesaHasResults              = errors.New("la mesa indicada tiene resultados registrados y no se puede liberar")
	ErrConflict                    = errors.New("no se pudo completar la operación, verifica los datos")
)

// MesasAsignadasError names every requested table already claimed by
// another witness at the station, sorted ascending.
type MesasAsignadasError struct {
	Mesas []int
}

func (e MesasAsignadasError) Error() string {
	parts := make([]string, 0, len(e.Mesas))
	for _, mesa := range e.Mesas {
		parts = append(parts, strconv.Itoa(mesa))
	}
	return fmt.Sprintf("las mesas ya están asignadas: %s", strings.Join(parts, ", "))
}
