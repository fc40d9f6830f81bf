package entities

import "time"

// ReleaseRecord is one entry of the release log.
type ReleaseRecord struct {
	AuditID       string
	WitnessID     string
	WitnessNombre string
	StationID     string
	PuestoNombre  string
	Mesa          int
	LiberadoPorID string
	RolLiberador  string
	Motivo        string
	CreadoEn      time.Time
}
