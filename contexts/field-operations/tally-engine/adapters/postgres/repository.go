package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"centinela/contexts/field-operations/tally-engine/domain/entities"
	domainerrors "centinela/contexts/field-operations/tally-engine/domain/errors"
	"centinela/contexts/field-operations/tally-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetResult(ctx context.Context, stationID string, mesa int) (entities.MesaResult, bool, error) {
	var row resultModel
	err := r.db.WithContext(ctx).
		Where("puesto_id = ?", strings.TrimSpace(stationID)).
		Where("mesa = ?", mesa).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MesaResult{}, false, nil
		}
		return entities.MesaResult{}, false, r.logError("tally_repo_get_failed", err, "station_id", strings.TrimSpace(stationID), "mesa", mesa)
	}
	result, err := row.toEntity()
	if err != nil {
		return entities.MesaResult{}, false, r.logError("tally_repo_decode_failed", err, "result_id", row.ID)
	}
	return result, true, nil
}

func (r *Repository) ListResultsByWitness(ctx context.Context, witnessID string) ([]entities.MesaResult, error) {
	var rows []resultModel
	if err := r.db.WithContext(ctx).
		Where("testigo_id = ?", strings.TrimSpace(witnessID)).
		Order("puesto_id ASC, mesa ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("tally_repo_list_by_witness_failed", err, "witness_id", strings.TrimSpace(witnessID))
	}
	return rowsToEntities(rows, r)
}

func (r *Repository) ListResults(ctx context.Context, municipio string) ([]entities.MesaResult, error) {
	tx := r.db.WithContext(ctx).Model(&resultModel{})
	if strings.TrimSpace(municipio) != "" {
		tx = tx.Where("LOWER(municipio) = LOWER(?)", strings.TrimSpace(municipio))
	}
	var rows []resultModel
	if err := tx.Order("puesto_id ASC, mesa ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("tally_repo_list_failed", err, "municipio", strings.TrimSpace(municipio))
	}
	return rowsToEntities(rows, r)
}

// SubmitResult locks the tally row for the (station, mesa) pair if it
// exists, re-verifies it has not been sent, then writes the ENVIADA row.
// Concurrent submissions serialize on the lock so exactly one succeeds;
// the unique index on (puesto_id, mesa) closes the insert race for mesas
// without a prior row.
func (r *Repository) SubmitResult(ctx context.Context, result entities.MesaResult) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing resultModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("puesto_id = ?", result.StationID).
			Where("mesa = ?", result.Mesa).
			First(&existing).
			Error
		switch {
		case err == nil:
			if existing.Estado == entities.EstadoEnviada {
				return domainerrors.ErrAlreadySubmitted
			}
			row, encodeErr := resultModelFromEntity(result)
			if encodeErr != nil {
				return encodeErr
			}
			row.ID = existing.ID
			row.CreadoEn = existing.CreadoEn
			return tx.Model(&resultModel{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{
					"votos":          row.Votos,
					"voto_blanco":    row.VotoBlanco,
					"voto_nulo":      row.VotoNulo,
					"testigo_id":     row.TestigoID,
					"estado":         row.Estado,
					"enviado_en":     row.EnviadoEn,
					"actualizado_en": row.ActualizadoEn,
				}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			row, encodeErr := resultModelFromEntity(result)
			if encodeErr != nil {
				return encodeErr
			}
			if createErr := tx.Create(&row).Error; createErr != nil {
				if isUniqueViolation(createErr) {
					return domainerrors.ErrAlreadySubmitted
				}
				return createErr
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadySubmitted) {
			return err
		}
		return r.logError("tally_repo_submit_failed", err, "station_id", result.StationID, "mesa", result.Mesa)
	}
	return nil
}

func rowsToEntities(rows []resultModel, r *Repository) ([]entities.MesaResult, error) {
	results := make([]entities.MesaResult, 0, len(rows))
	for _, row := range rows {
		result, err := row.toEntity()
		if err != nil {
			return nil, r.logError("tally_repo_decode_failed", err, "result_id", row.ID)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "field-operations/tally-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("tally repository operation failed", fields...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type resultModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	PuestoID      string     `gorm:"column:puesto_id;uniqueIndex:idx_resultados_puesto_mesa"`
	Municipio     string     `gorm:"column:municipio"`
	Mesa          int        `gorm:"column:mesa;uniqueIndex:idx_resultados_puesto_mesa"`
	Votos         []byte     `gorm:"column:votos;type:jsonb"`
	VotoBlanco    int        `gorm:"column:voto_blanco"`
	VotoNulo      int        `gorm:"column:voto_nulo"`
	TestigoID     string     `gorm:"column:testigo_id;index"`
	Estado        string     `gorm:"column:estado"`
	EnviadoEn     *time.Time `gorm:"column:enviado_en"`
	CreadoEn      time.Time  `gorm:"column:creado_en"`
	ActualizadoEn time.Time  `gorm:"column:actualizado_en"`
}

func (resultModel) TableName() string {
	return "resultados_mesas"
}

func resultModelFromEntity(result entities.MesaResult) (resultModel, error) {
	encoded, err := json.Marshal(result.Votos)
	if err != nil {
		return resultModel{}, err
	}
	row := resultModel{
		ID:            result.ResultID,
		PuestoID:      result.StationID,
		Municipio:     result.Municipio,
		Mesa:          result.Mesa,
		Votos:         encoded,
		VotoBlanco:    result.VotoBlanco,
		VotoNulo:      result.VotoNulo,
		TestigoID:     result.TestigoID,
		Estado:        result.Estado,
		CreadoEn:      result.CreadoEn.UTC(),
		ActualizadoEn: result.ActualizadoEn.UTC(),
	}
	if result.EnviadoEn != nil {
		enviado := result.EnviadoEn.UTC()
		row.EnviadoEn = &enviado
	}
	return row, nil
}

func (m resultModel) toEntity() (entities.MesaResult, error) {
	votos := make(map[string]int)
	if len(m.Votos) > 0 {
		if err := json.Unmarshal(m.Votos, &votos); err != nil {
			return entities.MesaResult{}, err
		}
	}
	result := entities.MesaResult{
		ResultID:      m.ID,
		StationID:     m.PuestoID,
		Municipio:     m.Municipio,
		Mesa:          m.Mesa,
		Votos:         votos,
		VotoBlanco:    m.VotoBlanco,
		VotoNulo:      m.VotoNulo,
		TestigoID:     m.TestigoID,
		Estado:        m.Estado,
		CreadoEn:      m.CreadoEn.UTC(),
		ActualizadoEn: m.ActualizadoEn.UTC(),
	}
	if m.EnviadoEn != nil {
		enviado := m.EnviadoEn.UTC()
		result.EnviadoEn = &enviado
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.TallyRepository = (*Repository)(nil)
	_ ports.Clock           = SystemClock{}
	_ ports.IDGenerator     = UUIDGenerator{}
)
