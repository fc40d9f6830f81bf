package errors

import "errors"

var ErrForbidden = errors.New("no tienes permisos para consultar las liberaciones")
