package commands

import (
	"encoding/json"
	"time"

	"centinela/contexts/field-operations/witness-assignment/domain/entities"
	"centinela/contexts/field-operations/witness-assignment/ports"
)

func newReleaseEnvelope(eventID string, audit entities.ReleaseAudit, station ports.StationProjection) (ports.EventEnvelope, error) {
	// Release events are partitioned by station so reporting consumers see
	// per-station releases in order.
	payload, err := json.Marshal(map[string]any{
		"audit_id":      audit.AuditID,
		"witness_id":    audit.WitnessID,
		"station_id":    audit.StationID,
		"puesto":        station.Puesto,
		"municipio":     station.Municipio,
		"mesa":          audit.Mesa,
		"released_by":   audit.LiberadoPorID,
		"releaser_role": audit.RolLiberador,
		"motivo":        audit.Motivo,
		"occurred_at":   audit.CreadoEn.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "witness.mesa.released",
		OccurredAt:       audit.CreadoEn.UTC(),
		SourceService:    "witness-assignment",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "station_id",
		PartitionKey:     audit.StationID,
		Data:             payload,
	}, nil
}
