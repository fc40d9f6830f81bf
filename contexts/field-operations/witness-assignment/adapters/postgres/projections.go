package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/ports"

	"gorm.io/gorm"
)

// StationReader projects the registry's station table into the view this
// module needs.
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

func (r *StationReader) GetStation(ctx context.Context, stationID string) (ports.StationProjection, error) {
	var row stationProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(stationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StationProjection{}, domainerrors.ErrStationNotFound
		}
		r.logger.Error("station projection read failed",
			"event", "witness_station_projection_failed",
			"module", "field-operations/witness-assignment",
			"layer", "adapter",
			"station_id", strings.TrimSpace(stationID),
			"error", err.Error(),
		)
		return ports.StationProjection{}, err
	}
	return ports.StationProjection{
		StationID:  row.ID,
		Puesto:     row.Puesto,
		Municipio:  row.Municipio,
		TotalMesas: row.TotalMesas,
	}, nil
}

// SurveyReader consults the survey subsystem's table states before a
// release is allowed.
type SurveyReader struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSurveyReader(db *gorm.DB, logger *slog.Logger) *SurveyReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurveyReader{db: db, logger: logger}
}

type surveyRecordModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	Puesto    string `gorm:"column:puesto"`
	Municipio string `gorm:"column:municipio"`
	Mesa      int    `gorm:"column:mesa"`
	Estado    string `gorm:"column:estado"`
}

func (surveyRecordModel) TableName() string {
	return "encuestas_mesas"
}

func (r *SurveyReader) TableResultState(ctx context.Context, puesto string, municipio string, mesa int) (ports.SurveyState, error) {
	var rows []surveyRecordModel
	err := r.db.WithContext(ctx).
		Where("LOWER(puesto) = LOWER(?)", strings.TrimSpace(puesto)).
		Where("LOWER(municipio) = LOWER(?)", strings.TrimSpace(municipio)).
		Where("mesa = ?", mesa).
		Find(&rows).
		Error
	if err != nil {
		r.logger.Error("survey state read failed",
			"event", "witness_survey_state_failed",
			"module", "field-operations/witness-assignment",
			"layer", "adapter",
			"mesa", mesa,
			"error", err.Error(),
		)
		return ports.SurveyStateNone, err
	}
	state := ports.SurveyStateNone
	for _, row := range rows {
		switch strings.ToUpper(strings.TrimSpace(row.Estado)) {
		case "FINALIZADA":
			return ports.SurveyStateFinalized, nil
		case "REGISTRADA":
			state = ports.SurveyStateRegistered
		}
	}
	return state, nil
}

var (
	_ ports.StationReader      = (*StationReader)(nil)
	_ ports.SurveyStatusReader = (*SurveyReader)(nil)
)
