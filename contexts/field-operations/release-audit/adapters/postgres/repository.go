package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"centinela/contexts/field-operations/release-audit/domain/entities"
	"centinela/contexts/field-operations/release-audit/ports"

	"gorm.io/gorm"
)

// Repository reads the release log joined with witness and station names.
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

type releaseRow struct {
	ID            string    `gorm:"column:id"`
	TestigoID     string    `gorm:"column:testigo_id"`
	TestigoNombre string    `gorm:"column:testigo_nombre"`
	PuestoID      string    `gorm:"column:puesto_id"`
	PuestoNombre  string    `gorm:"column:puesto_nombre"`
	Mesa          int       `gorm:"column:mesa"`
	LiberadoPorID string    `gorm:"column:liberado_por_id"`
	RolLiberador  string    `gorm:"column:rol_liberador"`
	Motivo        string    `gorm:"column:motivo"`
	CreadoEn      time.Time `gorm:"column:creado_en"`
}

func (r *Repository) ListReleases(ctx context.Context, filter ports.AuditFilter) ([]entities.ReleaseRecord, error) {
	tx := r.db.WithContext(ctx).
		Table("liberaciones_mesas AS l").
		Select(`l.id, l.testigo_id, COALESCE(t.nombre, '') AS testigo_nombre,
			l.puesto_id, COALESCE(p.puesto, '') AS puesto_nombre,
			l.mesa, l.liberado_por_id, l.rol_liberador, l.motivo, l.creado_en`).
		Joins("LEFT JOIN testigos_electorales t ON t.id = l.testigo_id").
		Joins("LEFT JOIN puestos_votacion p ON p.id = l.puesto_id")
	if filter.StationID != "" {
		tx = tx.Where("l.puesto_id = ?", filter.StationID)
	}
	if filter.WitnessID != "" {
		tx = tx.Where("l.testigo_id = ?", filter.WitnessID)
	}

	var rows []releaseRow
	if err := tx.Order("l.creado_en DESC").Scan(&rows).Error; err != nil {
		r.logger.Error("release log read failed",
			"event", "audit_repo_list_failed",
			"module", "field-operations/release-audit",
			"layer", "adapter",
			"error", err.Error(),
		)
		return nil, err
	}

	records := make([]entities.ReleaseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entities.ReleaseRecord{
			AuditID:       row.ID,
			WitnessID:     row.TestigoID,
			WitnessNombre: row.TestigoNombre,
			StationID:     row.PuestoID,
			PuestoNombre:  row.PuestoNombre,
			Mesa:          row.Mesa,
			LiberadoPorID: row.LiberadoPorID,
			RolLiberador:  row.RolLiberador,
			Motivo:        row.Motivo,
			CreadoEn:      row.CreadoEn.UTC(),
		})
	}
	return records, nil
}

var _ ports.AuditRepository = (*Repository)(nil)
