package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinigo/agenda-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository is the authoritative appointment store. The
	// agenda re-reads through it after every mutation; rows are never
	// physically deleted.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, cancelReason *string) (*model.Appointment, error)
	}

	// ClinicalRecordRepository backs the ATENDIDO cascade. FindByPatient
	// returns (nil, nil) when the patient has no record yet.
	ClinicalRecordRepository interface {
		FindByPatient(ctx context.Context, patientID uuid.UUID) (*model.ClinicalRecord, error)
		CreateRecord(ctx context.Context, record *model.ClinicalRecord) error
		CreateConsultation(ctx context.Context, consultation *model.Consultation) error
		ListConsultations(ctx context.Context, recordID uuid.UUID) ([]*model.Consultation, error)
	}

	PractitionerRepository interface {
		Create(ctx context.Context, practitioner *model.Practitioner) error
		Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
		Update(ctx context.Context, practitioner *model.Practitioner) error
		ListActive(ctx context.Context) ([]*model.Practitioner, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
	}
)
