package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ClinicalRecord is the per-patient history. At most one exists per patient;
// it is created lazily the first time one of their appointments is attended.
type ClinicalRecord struct {
	Base
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Summary   string          `db:"summary" json:"summary,omitempty"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedBy string          `db:"created_by" json:"created_by"`
}

// Consultation is one visit entry under a clinical record. Every attended
// appointment produces exactly one.
type Consultation struct {
	Base
	RecordID      uuid.UUID       `db:"record_id" json:"record_id"`
	AppointmentID uuid.UUID       `db:"appointment_id" json:"appointment_id"`
	Practitioner  string          `db:"practitioner" json:"practitioner"`
	Reason        string          `db:"reason" json:"reason,omitempty"`
	Notes         json.RawMessage `db:"notes" json:"notes,omitempty"`
	AttendedAt    time.Time       `db:"attended_at" json:"attended_at"`
}
