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
	apperrors "github.com/clinigo/agenda-api/pkg/errors"
	"github.com/clinigo/agenda-api/pkg/logger"
	"github.com/clinigo/agenda-api/pkg/metrics"
)

type appointmentRepository struct {
	db  *sqlx.DB
	log *logger.Logger
	m   *metrics.Metrics
}

func NewAppointmentRepository(db *sqlx.DB, log *logger.Logger, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, log: log, m: m}
}

// appointmentRow mirrors the stored shape. The legacy system wrote the start
// time as free text in several formats and the status as free text too, so
// rows are mapped into the typed model here at the store boundary and bad
// rows are reported as malformed instead of leaking upstream.
type appointmentRow struct {
	ID               uuid.UUID      `db:"id"`
	PatientID        uuid.UUID      `db:"patient_id"`
	PractitionerID   *uuid.UUID     `db:"practitioner_id"`
	PractitionerName sql.NullString `db:"practitioner_name"`
	ScheduledAt      string         `db:"scheduled_at"`
	DurationMins     sql.NullInt64  `db:"duration_mins"`
	Reason           sql.NullString `db:"reason"`
	Status           string         `db:"status"`
	CUPSCode         sql.NullString `db:"cups_code"`
	CUPSSpecialty    sql.NullString `db:"cups_specialty"`
	CancelReason     sql.NullString `db:"cancel_reason"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// Formats seen in historical rows, most recent first.
var scheduledAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
}

func parseScheduledAt(raw string) (time.Time, error) {
	for _, layout := range scheduledAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable scheduled_at %q", raw)
}

func (row *appointmentRow) toModel() (*model.Appointment, error) {
	scheduledAt, err := parseScheduledAt(row.ScheduledAt)
	if err != nil {
		return nil, apperrors.MalformedRecord(err)
	}

	apt := &model.Appointment{
		Base: model.Base{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		PatientID:        row.PatientID,
		PractitionerID:   row.PractitionerID,
		PractitionerName: row.PractitionerName.String,
		ScheduledAt:      scheduledAt,
		DurationMins:     model.DefaultAppointmentDuration,
		Reason:           row.Reason.String,
		Status:           model.NormalizeStatus(row.Status),
	}
	if row.DurationMins.Valid && row.DurationMins.Int64 > 0 {
		apt.DurationMins = int(row.DurationMins.Int64)
	}
	if row.CUPSCode.Valid && row.CUPSCode.String != "" {
		apt.Procedure = &model.ProcedureCode{
			Code:      row.CUPSCode.String,
			Specialty: row.CUPSSpecialty.String,
		}
	}
	if row.CancelReason.Valid {
		reason := row.CancelReason.String
		apt.CancelReason = &reason
	}
	return apt, nil
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, practitioner_id, practitioner_name,
			scheduled_at, duration_mins, reason, status,
			cups_code, cups_specialty, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	var cupsCode, cupsSpecialty string
	if apt.Procedure != nil {
		cupsCode = apt.Procedure.Code
		cupsSpecialty = apt.Procedure.Specialty
	}

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.PractitionerID,
		apt.PractitionerName,
		apt.ScheduledAt.Format(time.RFC3339),
		apt.DurationMins,
		apt.Reason,
		apt.Status,
		cupsCode,
		cupsSpecialty,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, practitioner_id, practitioner_name,
			   scheduled_at, duration_mins, reason, status,
			   cups_code, cups_specialty, cancel_reason,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return row.toModel()
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, practitioner_id, practitioner_name,
			   scheduled_at, duration_mins, reason, status,
			   cups_code, cups_specialty, cancel_reason,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argn := 0

	next := func() string {
		argn++
		return fmt.Sprintf("$%d", argn)
	}

	if filters != nil {
		if filters.PractitionerID != nil {
			query += " AND practitioner_id = " + next()
			args = append(args, *filters.PractitionerID)
		}
		if filters.PatientID != nil {
			query += " AND patient_id = " + next()
			args = append(args, *filters.PatientID)
		}
		if filters.Status != "" {
			query += " AND status = " + next()
			args = append(args, filters.Status)
		}
	}
	query += " ORDER BY scheduled_at, id"

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	appointments := make([]*model.Appointment, 0, len(rows))
	for i := range rows {
		apt, err := rows[i].toModel()
		if err != nil {
			// malformed rows are skipped, never fatal
			if r.log != nil {
				r.log.Warn("skipping malformed appointment row", "appointment_id", rows[i].ID.String(), "error", err.Error())
			}
			if r.m != nil {
				r.m.MalformedRecords.Inc()
			}
			continue
		}
		// scheduled_at is a legacy text column with mixed formats, so the
		// time-range filter runs here on the parsed value, not in SQL
		if filters != nil {
			if !filters.From.IsZero() && apt.ScheduledAt.Before(filters.From) {
				continue
			}
			if !filters.To.IsZero() && !apt.ScheduledAt.Before(filters.To) {
				continue
			}
		}
		appointments = append(appointments, apt)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, cancel_reason = COALESCE($2, cancel_reason), updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, cancelReason, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("appointment", nil)
	}

	// re-read so callers always see the authoritative row
	return r.Get(ctx, id)
}
