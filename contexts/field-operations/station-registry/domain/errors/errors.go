package errors

import "errors"

var (
	ErrInvalidStationInput = errors.New("datos del puesto incompletos o inválidos")
	ErrLatitudeOutOfRange  = errors.New("la latitud debe estar entre -90 y 90")
	ErrLongitudeOutOfRange = errors.New("la longitud debe estar entre -180 y 180")
	ErrInvalidMesasValue   = errors.New("el puesto no tiene un número de mesas válido")
	ErrStationExists       = errors.New("ya existe un puesto con esta ubicación")
	ErrStationNotFound     = errors.New("puesto de votación no encontrado")
	ErrForbidden           = errors.New("no autorizado para esta operación")
)
