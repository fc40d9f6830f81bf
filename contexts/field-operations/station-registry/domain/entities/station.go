package entities

import (
	"strings"
	"time"
)

// Station is a physical polling location. TotalMesas is parsed from the
// free-text mesas field exactly once at creation; every consumer trusts
// the typed value afterwards.
type Station struct {
	StationID    string
	Nombre       string
	Departamento string
	Municipio    string
	Puesto       string
	TotalMesas   int
	Direccion    string
	Latitud      float64
	Longitud     float64
	CreadoPorID  string
	CreadoPor    string
	CreadoEn     time.Time
}

// Identity is the uniqueness tuple for a physical location. Text fields
// compare case-insensitively after trimming.
type Identity struct {
	Departamento string
	Municipio    string
	Puesto       string
	TotalMesas   int
	Direccion    string
	Latitud      float64
	Longitud     float64
}

func (s Station) Identity() Identity {
	return Identity{
		Departamento: normalize(s.Departamento),
		Municipio:    normalize(s.Municipio),
		Puesto:       normalize(s.Puesto),
		TotalMesas:   s.TotalMesas,
		Direccion:    normalize(s.Direccion),
		Latitud:      s.Latitud,
		Longitud:     s.Longitud,
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
