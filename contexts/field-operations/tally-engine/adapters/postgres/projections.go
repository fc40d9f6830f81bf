package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/ports"

	"gorm.io/gorm"
)

// AssignmentReader projects witness claims from the assignment module's
// table.
type AssignmentReader struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAssignmentReader(db *gorm.DB, logger *slog.Logger) *AssignmentReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentReader{db: db, logger: logger}
}

type assignmentProjectionModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	TestigoID string `gorm:"column:testigo_id"`
	PuestoID  string `gorm:"column:puesto_id"`
	Mesas     []byte `gorm:"column:mesas"`
}

func (assignmentProjectionModel) TableName() string {
	return "asignaciones_testigos"
}

func (r *AssignmentReader) GetAssignmentByWitness(ctx context.Context, witnessID string) (ports.AssignmentView, bool, error) {
	var row assignmentProjectionModel
	err := r.db.WithContext(ctx).
		Where("testigo_id = ?", strings.TrimSpace(witnessID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AssignmentView{}, false, nil
		}
		r.logger.Error("assignment projection read failed",
			"event", "tally_assignment_projection_failed",
			"module", "field-operations/tally-engine",
			"layer", "adapter",
			"witness_id", strings.TrimSpace(witnessID),
			"error", err.Error(),
		)
		return ports.AssignmentView{}, false, err
	}
	mesas := make([]int, 0)
	if len(row.Mesas) > 0 {
		if err := json.Unmarshal(row.Mesas, &mesas); err != nil {
			return ports.AssignmentView{}, false, err
		}
	}
	return ports.AssignmentView{
		WitnessID: row.TestigoID,
		StationID: row.PuestoID,
		Mesas:     mesas,
	}, true, nil
}

// StationReader projects the registry's station table.
type StationReader struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStationReader(db *gorm.DB, logger *slog.Logger) *StationReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StationReader{db: db, logger: logger}
}

type stationProjectionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	Puesto     string `gorm:"column:puesto"`
	Municipio  string `gorm:"column:municipio"`
	TotalMesas int    `gorm:"column:total_mesas"`
}

func (stationProjectionModel) TableName() string {
	return "puestos_votacion"
}

func (r *StationReader) GetStation(ctx context.Context, stationID string) (ports.StationView, error) {
	var row stationProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(stationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StationView{}, domainerrors.ErrStationNotFound
		}
		r.logger.Error("station projection read failed",
			"event", "tally_station_projection_failed",
			"module", "field-operations/tally-engine",
			"layer", "adapter",
			"station_id", strings.TrimSpace(stationID),
			"error", err.Error(),
		)
		return ports.StationView{}, err
	}
	return ports.StationView{
		StationID:  row.ID,
		Puesto:     row.Puesto,
		Municipio:  row.Municipio,
		TotalMesas: row.TotalMesas,
	}, nil
}

// CandidateRoster reads the configured tarjetón ordered by name.
type CandidateRoster struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCandidateRoster(db *gorm.DB, logger *slog.Logger) *CandidateRoster {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateRoster{db: db, logger: logger}
}

type candidateModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	Nombre  string `gorm:"column:nombre"`
	Partido string `gorm:"column:partido"`
}

func (candidateModel) TableName() string {
	return "candidatos"
}

func (r *CandidateRoster) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&rows).Error; err != nil {
		r.logger.Error("candidate roster read failed",
			"event", "tally_roster_read_failed",
			"module", "field-operations/tally-engine",
			"layer", "adapter",
			"error", err.Error(),
		)
		return nil, err
	}
	candidates := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, entities.Candidate{
			CandidateID: row.ID,
			Nombre:      row.Nombre,
			Partido:     row.Partido,
		})
	}
	return candidates, nil
}

var (
	_ ports.AssignmentReader = (*AssignmentReader)(nil)
	_ ports.StationReader    = (*StationReader)(nil)
	_ ports.CandidateRoster  = (*CandidateRoster)(nil)
)
