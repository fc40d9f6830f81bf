package errors

import "errors"

var (
	ErrForbidden         = errors.New("no tienes permisos para esta operación")
	ErrMesaAccess        = errors.New("No tienes acceso a esta mesa.")
	ErrStationNotFound   = errors.New("el puesto de votación no existe")
	ErrResultNotFound    = errors.New("no hay resultados registrados para esta mesa")
	ErrMesaOutOfRange    = errors.New("la mesa no existe en este puesto")
	ErrAlreadySubmitted  = errors.New("Los resultados de esta mesa ya fueron enviados.")
	ErrRepeatedCandidate = errors.New("Los candidatos no pueden repetirse.")
	ErrNegativeVotes     = errors.New("los votos no pueden ser negativos")
	ErrUnknownCandidate  = errors.New("se reportaron votos para un candidato que no está en el tarjetón")
	ErrIncompleteVotes   = errors.New("faltan votos por reportar para candidatos del tarjetón")
	ErrEmptyRoster       = errors.New("no hay candidatos configurados en el tarjetón")
)
