package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
)

type clinicalRecordRepository struct {
	db *sqlx.DB
}

func NewClinicalRecordRepository(db *sqlx.DB) repository.ClinicalRecordRepository {
	return &clinicalRecordRepository{db: db}
}

func (r *clinicalRecordRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) (*model.ClinicalRecord, error) {
	query := `
		SELECT id, patient_id, summary, details, created_by, created_at, updated_at
		FROM clinical_records
		WHERE patient_id = $1 AND deleted_at IS NULL
	`
	var record model.ClinicalRecord
	if err := r.db.GetContext(ctx, &record, query, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find clinical record: %w", err)
	}
	return &record, nil
}

func (r *clinicalRecordRepository) CreateRecord(ctx context.Context, record *model.ClinicalRecord) error {
	query := `
		INSERT INTO clinical_records (id, patient_id, summary, details, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.Summary,
		record.Details,
		record.CreatedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinical record: %w", err)
	}
	return nil
}

func (r *clinicalRecordRepository) CreateConsultation(ctx context.Context, consultation *model.Consultation) error {
	query := `
		INSERT INTO consultations (
			id, record_id, appointment_id, practitioner, reason, notes,
			attended_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	consultation.ID = uuid.New()
	consultation.CreatedAt = time.Now()
	consultation.UpdatedAt = consultation.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		consultation.ID,
		consultation.RecordID,
		consultation.AppointmentID,
		consultation.Practitioner,
		consultation.Reason,
		consultation.Notes,
		consultation.AttendedAt,
		consultation.CreatedAt,
		consultation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *clinicalRecordRepository) ListConsultations(ctx context.Context, recordID uuid.UUID) ([]*model.Consultation, error) {
	query := `
		SELECT id, record_id, appointment_id, practitioner, reason, notes,
			   attended_at, created_at, updated_at
		FROM consultations
		WHERE record_id = $1
		ORDER BY attended_at DESC
	`
	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, recordID); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}
