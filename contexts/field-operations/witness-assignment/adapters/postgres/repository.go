package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"centinela/contexts/field-operations/witness-assignment/domain/entities"
	domainerrors "centinela/contexts/field-operations/witness-assignment/domain/errors"
	"centinela/contexts/field-operations/witness-assignment/ports"

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

func (r *Repository) GetWitness(ctx context.Context, witnessID string) (entities.Witness, error) {
	var row witnessModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(witnessID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Witness{}, domainerrors.ErrWitnessNotFound
		}
		return entities.Witness{}, r.logError("witness_repo_get_failed", err, "witness_id", strings.TrimSpace(witnessID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListWitnesses(ctx context.Context, createdBy string) ([]entities.Witness, error) {
	tx := r.db.WithContext(ctx).Model(&witnessModel{})
	if strings.TrimSpace(createdBy) != "" {
		tx = tx.Where("creado_por_id = ?", strings.TrimSpace(createdBy))
	}
	var rows []witnessModel
	if err := tx.Order("creado_en ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("witness_repo_list_failed", err, "created_by", strings.TrimSpace(createdBy))
	}
	witnesses := make([]entities.Witness, 0, len(rows))
	for _, row := range rows {
		witnesses = append(witnesses, row.toEntity())
	}
	return witnesses, nil
}

func (r *Repository) GetAssignmentByWitness(ctx context.Context, witnessID string) (entities.Assignment, bool, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("testigo_id = ?", strings.TrimSpace(witnessID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, false, nil
		}
		return entities.Assignment{}, false, r.logError("witness_repo_assignment_get_failed", err, "witness_id", strings.TrimSpace(witnessID))
	}
	assignment, err := row.toEntity()
	if err != nil {
		return entities.Assignment{}, false, r.logError("witness_repo_decode_mesas_failed", err, "assignment_id", row.ID)
	}
	return assignment, true, nil
}

func (r *Repository) ListAssignmentsByStation(ctx context.Context, stationID string) ([]entities.Assignment, error) {
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("puesto_id = ?", strings.TrimSpace(stationID)).
		Find(&rows).Error; err != nil {
		return nil, r.logError("witness_repo_assignment_list_failed", err, "station_id", strings.TrimSpace(stationID))
	}
	assignments := make([]entities.Assignment, 0, len(rows))
	for _, row := range rows {
		assignment, err := row.toEntity()
		if err != nil {
			return nil, r.logError("witness_repo_decode_mesas_failed", err, "assignment_id", row.ID)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// CreateWitnessWithAssignment locks the station row, re-reads its
// assignment rows, recomputes the conflict set and inserts witness plus
// assignment only when it is empty. Locking the parent row serializes
// concurrent creates even when the station has no assignments yet;
// locking only the assignment rows would let two first creates (or a
// phantom insert after the read) pass the disjointness check together.
func (r *Repository) CreateWitnessWithAssignment(ctx context.Context, witness entities.Witness, assignment entities.Assignment) ([]int, error) {
	var conflicts []int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var station stationProjectionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", assignment.StationID).
			First(&station).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrStationNotFound
			}
			return err
		}

		var rows []assignmentModel
		if err := tx.
			Where("puesto_id = ?", assignment.StationID).
			Find(&rows).Error; err != nil {
			return err
		}
		claimed := make(map[int]bool)
		for _, row := range rows {
			existing, err := row.toEntity()
			if err != nil {
				return err
			}
			for _, mesa := range existing.Mesas {
				claimed[mesa] = true
			}
		}
		for _, mesa := range assignment.Mesas {
			if claimed[mesa] {
				conflicts = append(conflicts, mesa)
			}
		}
		if len(conflicts) > 0 {
			sort.Ints(conflicts)
			return nil
		}

		if err := tx.Create(witnessModelFromEntity(witness)).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrEmailTaken
			}
			return err
		}
		row, err := assignmentModelFromEntity(assignment)
		if err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) || errors.Is(err, domainerrors.ErrStationNotFound) {
			return nil, err
		}
		return nil, r.logError("witness_repo_create_failed", err, "witness_id", witness.WitnessID, "station_id", assignment.StationID)
	}
	return conflicts, nil
}

// ReleaseMesa locks the witness's assignment row, re-verifies the mesa is
// still claimed, rewrites the claim set and appends the audit row in the
// same transaction.
func (r *Repository) ReleaseMesa(ctx context.Context, witnessID string, mesa int, audit entities.ReleaseAudit) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row assignmentModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("testigo_id = ?", strings.TrimSpace(witnessID)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNoAssignment
			}
			return err
		}
		assignment, err := row.toEntity()
		if err != nil {
			return err
		}
		if !assignment.HasMesa(mesa) {
			return domainerrors.ErrMesaNoLongerAssigned
		}

		remaining := make([]int, 0, len(assignment.Mesas)-1)
		for _, claimed := range assignment.Mesas {
			if claimed != mesa {
				remaining = append(remaining, claimed)
			}
		}
		encoded, err := json.Marshal(remaining)
		if err != nil {
			return err
		}
		if err := tx.Model(&assignmentModel{}).
			Where("id = ?", row.ID).
			Update("mesas", encoded).Error; err != nil {
			return err
		}
		return tx.Create(auditModelFromEntity(audit)).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoAssignment) || errors.Is(err, domainerrors.ErrMesaNoLongerAssigned) {
			return err
		}
		return r.logError("witness_repo_release_failed", err, "witness_id", strings.TrimSpace(witnessID), "mesa", mesa)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("witness_repo_outbox_append_failed", err, "event_id", envelope.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("witness_repo_outbox_list_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Update("published_at", publishedAt.UTC())
	if result.Error != nil {
		return r.logError("witness_repo_outbox_mark_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

// ListReleaseAudits supports the release-audit read side: newest first,
// optionally filtered by station and witness.
func (r *Repository) ListReleaseAudits(ctx context.Context, stationID, witnessID string) ([]entities.ReleaseAudit, error) {
	tx := r.db.WithContext(ctx).Model(&auditModel{})
	if strings.TrimSpace(stationID) != "" {
		tx = tx.Where("puesto_id = ?", strings.TrimSpace(stationID))
	}
	if strings.TrimSpace(witnessID) != "" {
		tx = tx.Where("testigo_id = ?", strings.TrimSpace(witnessID))
	}
	var rows []auditModel
	if err := tx.Order("creado_en DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("witness_repo_audit_list_failed", err)
	}
	audits := make([]entities.ReleaseAudit, 0, len(rows))
	for _, row := range rows {
		audits = append(audits, row.toEntity())
	}
	return audits, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "field-operations/witness-assignment",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("witness repository operation failed", fields...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type witnessModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Nombre       string    `gorm:"column:nombre"`
	Correo       string    `gorm:"column:correo;uniqueIndex"`
	Telefono     string    `gorm:"column:telefono"`
	PasswordHash string    `gorm:"column:password_hash"`
	Municipio    string    `gorm:"column:municipio"`
	CreadoPorID  string    `gorm:"column:creado_por_id"`
	CreadoEn     time.Time `gorm:"column:creado_en"`
}

func (witnessModel) TableName() string {
	return "testigos_electorales"
}

func witnessModelFromEntity(witness entities.Witness) *witnessModel {
	return &witnessModel{
		ID:           witness.WitnessID,
		Nombre:       witness.Nombre,
		Correo:       witness.Correo,
		Telefono:     witness.Telefono,
		PasswordHash: witness.PasswordHash,
		Municipio:    witness.Municipio,
		CreadoPorID:  witness.CreadoPorID,
		CreadoEn:     witness.CreadoEn.UTC(),
	}
}

func (m witnessModel) toEntity() entities.Witness {
	return entities.Witness{
		WitnessID:    m.ID,
		Nombre:       m.Nombre,
		Correo:       m.Correo,
		Telefono:     m.Telefono,
		PasswordHash: m.PasswordHash,
		Municipio:    m.Municipio,
		CreadoPorID:  m.CreadoPorID,
		CreadoEn:     m.CreadoEn.UTC(),
	}
}

type assignmentModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	TestigoID   string    `gorm:"column:testigo_id;uniqueIndex"`
	PuestoID    string    `gorm:"column:puesto_id;index"`
	Mesas       []byte    `gorm:"column:mesas;type:jsonb"`
	CreadoPorID string    `gorm:"column:creado_por_id"`
	CreadoEn    time.Time `gorm:"column:creado_en"`
}

func (assignmentModel) TableName() string {
	return "asignaciones_testigos"
}

func assignmentModelFromEntity(assignment entities.Assignment) (assignmentModel, error) {
	encoded, err := json.Marshal(assignment.Mesas)
	if err != nil {
		return assignmentModel{}, err
	}
	return assignmentModel{
		ID:          assignment.AssignmentID,
		TestigoID:   assignment.WitnessID,
		PuestoID:    assignment.StationID,
		Mesas:       encoded,
		CreadoPorID: assignment.CreadoPorID,
		CreadoEn:    assignment.CreadoEn.UTC(),
	}, nil
}

func (m assignmentModel) toEntity() (entities.Assignment, error) {
	mesas := make([]int, 0)
	if len(m.Mesas) > 0 {
		if err := json.Unmarshal(m.Mesas, &mesas); err != nil {
			return entities.Assignment{}, err
		}
	}
	return entities.Assignment{
		AssignmentID: m.ID,
		WitnessID:    m.TestigoID,
		StationID:    m.PuestoID,
		Mesas:        mesas,
		CreadoPorID:  m.CreadoPorID,
		CreadoEn:     m.CreadoEn.UTC(),
	}, nil
}

type auditModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	TestigoID     string    `gorm:"column:testigo_id;index"`
	PuestoID      string    `gorm:"column:puesto_id;index"`
	Mesa          int       `gorm:"column:mesa"`
	LiberadoPorID string    `gorm:"column:liberado_por_id"`
	RolLiberador  string    `gorm:"column:rol_liberador"`
	Motivo        string    `gorm:"column:motivo"`
	CreadoEn      time.Time `gorm:"column:creado_en"`
}

func (auditModel) TableName() string {
	return "liberaciones_mesas"
}

func auditModelFromEntity(audit entities.ReleaseAudit) *auditModel {
	return &auditModel{
		ID:            audit.AuditID,
		TestigoID:     audit.WitnessID,
		PuestoID:      audit.StationID,
		Mesa:          audit.Mesa,
		LiberadoPorID: audit.LiberadoPorID,
		RolLiberador:  audit.RolLiberador,
		Motivo:        audit.Motivo,
		CreadoEn:      audit.CreadoEn.UTC(),
	}
}

func (m auditModel) toEntity() entities.ReleaseAudit {
	return entities.ReleaseAudit{
		AuditID:       m.ID,
		WitnessID:     m.TestigoID,
		StationID:     m.PuestoID,
		Mesa:          m.Mesa,
		LiberadoPorID: m.LiberadoPorID,
		RolLiberador:  m.RolLiberador,
		Motivo:        m.Motivo,
		CreadoEn:      m.CreadoEn.UTC(),
	}
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "liberaciones_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.WitnessRepository = (*Repository)(nil)
	_ ports.OutboxWriter      = (*Repository)(nil)
	_ ports.OutboxRepository  = (*Repository)(nil)
	_ ports.Clock             = SystemClock{}
	_ ports.IDGenerator       = UUIDGenerator{}
)
