package entities

import "time"

// Witness is the electoral-witness account created together with its
// assignment. One witness holds at most one active assignment.
type Witness struct {
	WitnessID    string
	Nombre       string
	Correo       string
	Telefono     string
	PasswordHash string
	Municipio    string
	CreadoPorID  string
	CreadoEn     time.Time
}

// Assignment claims a set of table numbers at one station. The set only
// ever shrinks (releases); it never grows and never moves to another
// station.
type Assignment struct {
	AssignmentID string
	WitnessID    string
	StationID    string
	Mesas        []int
	CreadoPorID  string
	CreadoEn     time.Time
}

// HasMesa reports whether the table number is currently claimed.
func (a Assignment) HasMesa(mesa int) bool {
	for _, claimed := range a.Mesas {
		if claimed == mesa {
			return true
		}
	}
	return false
}

// ReleaseAudit is one immutable ledger row written transactionally with
// the table removal it describes.
type ReleaseAudit struct {
	AuditID       string
	WitnessID     string
	StationID     string
	Mesa          int
	LiberadoPorID string
	RolLiberador  string
	Motivo        string
	CreadoEn      time.Time
}
