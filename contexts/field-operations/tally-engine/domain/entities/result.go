package entities

import "time"

const (
	EstadoPendiente = "PENDIENTE"
	EstadoEnviada   = "ENVIADA"
)

// MesaResult is the vote tally one witness reports for one mesa of one
// station. Votos maps candidate ID to vote count.
type MesaResult struct {
	ResultID      string
	StationID     string
	Municipio     string
	Mesa          int
	Votos         map[string]int
	VotoBlanco    int
	VotoNulo      int
	TestigoID     string
	Estado        string
	EnviadoEn     *time.Time
	CreadoEn      time.Time
	ActualizadoEn time.Time
}

// Submitted reports whether the tally already made its one-shot transition.
func (r MesaResult) Submitted() bool {
	return r.Estado == EstadoEnviada
}

// Candidate is one roster entry votes must be reported for.
type Candidate struct {
	CandidateID string
	Nombre      string
	Partido     string
}
