package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"centinela/contexts/field-operations/station-registry/domain/entities"
	domainerrors "centinela/contexts/field-operations/station-registry/domain/errors"
	"centinela/contexts/field-operations/station-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) SaveStation(ctx context.Context, station entities.Station) error {
	row := stationModelFromEntity(station)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrStationExists
		}
		return r.logError("station_repo_save_failed", err, "station_id", row.ID)
	}
	return nil
}

func (r *Repository) GetStation(ctx context.Context, stationID string) (entities.Station, error) {
	var row stationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(stationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Station{}, domainerrors.ErrStationNotFound
		}
		return entities.Station{}, r.logError("station_repo_get_failed", err, "station_id", strings.TrimSpace(stationID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListStations(ctx context.Context, municipio string) ([]entities.Station, error) {
	tx := r.db.WithContext(ctx).Model(&stationModel{})
	if strings.TrimSpace(municipio) != "" {
		tx = tx.Where("LOWER(municipio) = LOWER(?)", strings.TrimSpace(municipio))
	}
	var rows []stationModel
	if err := tx.Order("creado_en DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("station_repo_list_failed", err, "municipio", strings.TrimSpace(municipio))
	}
	items := make([]entities.Station, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteStation(ctx context.Context, stationID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(stationID)).
		Delete(&stationModel{})
	if result.Error != nil {
		return r.logError("station_repo_delete_failed", result.Error, "station_id", strings.TrimSpace(stationID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStationNotFound
	}
	return nil
}

func (r *Repository) StationExists(ctx context.Context, identity entities.Identity) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&stationModel{}).
		Where("LOWER(departamento) = ?", identity.Departamento).
		Where("LOWER(municipio) = ?", identity.Municipio).
		Where("LOWER(puesto) = ?", identity.Puesto).
		Where("total_mesas = ?", identity.TotalMesas).
		Where("LOWER(direccion) = ?", identity.Direccion).
		Where("latitud = ?", identity.Latitud).
		Where("longitud = ?", identity.Longitud).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("station_repo_exists_failed", err, "puesto", identity.Puesto)
	}
	return count > 0, nil
}

// ListClaimedTables reads the union of every assignment's mesas at this
// station from the witness-assignment module's table.
func (r *Repository) ListClaimedTables(ctx context.Context, stationID string) ([]int, error) {
	var rows []assignmentProjectionModel
	if err := r.db.WithContext(ctx).
		Where("puesto_id = ?", strings.TrimSpace(stationID)).
		Find(&rows).Error; err != nil {
		return nil, r.logError("station_repo_list_claimed_failed", err, "station_id", strings.TrimSpace(stationID))
	}
	claimed := make([]int, 0)
	for _, row := range rows {
		var mesas []int
		if len(row.Mesas) == 0 {
			continue
		}
		if err := json.Unmarshal(row.Mesas, &mesas); err != nil {
			return nil, r.logError("station_repo_decode_mesas_failed", err, "assignment_id", row.ID)
		}
		claimed = append(claimed, mesas...)
	}
	return claimed, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "field-operations/station-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("station repository operation failed", fields...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type stationModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Nombre       string    `gorm:"column:nombre"`
	Departamento string    `gorm:"column:departamento"`
	Municipio    string    `gorm:"column:municipio"`
	Puesto       string    `gorm:"column:puesto"`
	TotalMesas   int       `gorm:"column:total_mesas"`
	Direccion    string    `gorm:"column:direccion"`
	Latitud      float64   `gorm:"column:latitud"`
	Longitud     float64   `gorm:"column:longitud"`
	CreadoPorID  string    `gorm:"column:creado_por_id"`
	CreadoPor    string    `gorm:"column:creado_por_nombre"`
	CreadoEn     time.Time `gorm:"column:creado_en"`
}

func (stationModel) TableName() string {
	return "puestos_votacion"
}

func stationModelFromEntity(station entities.Station) stationModel {
	row := stationModel{
		ID:           strings.TrimSpace(station.StationID),
		Nombre:       strings.TrimSpace(station.Nombre),
		Departamento: strings.TrimSpace(station.Departamento),
		Municipio:    strings.TrimSpace(station.Municipio),
		Puesto:       strings.TrimSpace(station.Puesto),
		TotalMesas:   station.TotalMesas,
		Direccion:    strings.TrimSpace(station.Direccion),
		Latitud:      station.Latitud,
		Longitud:     station.Longitud,
		CreadoPorID:  strings.TrimSpace(station.CreadoPorID),
		CreadoPor:    strings.TrimSpace(station.CreadoPor),
		CreadoEn:     station.CreadoEn.UTC(),
	}
	if row.CreadoEn.IsZero() {
		row.CreadoEn = time.Now().UTC()
	}
	return row
}

func (m stationModel) toEntity() entities.Station {
	return entities.Station{
		StationID:    m.ID,
		Nombre:       m.Nombre,
		Departamento: m.Departamento,
		Municipio:    m.Municipio,
		Puesto:       m.Puesto,
		TotalMesas:   m.TotalMesas,
		Direccion:    m.Direccion,
		Latitud:      m.Latitud,
		Longitud:     m.Longitud,
		CreadoPorID:  m.CreadoPorID,
		CreadoPor:    m.CreadoPor,
		CreadoEn:     m.CreadoEn.UTC(),
	}
}

type assignmentProjectionModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	PuestoID string `gorm:"column:puesto_id"`
	Mesas    []byte `gorm:"column:mesas"`
}

func (assignmentProjectionModel) TableName() string {
	return "asignaciones_testigos"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.StationRepository = (*Repository)(nil)
var _ ports.ClaimedTablesReader = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
