package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

// Lifecycle statuses. The wire values are the clinic's historical Spanish
// labels and must not be renamed: stored rows and the UI both use them.
const (
	AppointmentStatusScheduled AppointmentStatus = "PROGRAMADO"
	AppointmentStatusInRoom    AppointmentStatus = "EN_SALA"
	AppointmentStatusAttended  AppointmentStatus = "ATENDIDO"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SE_PRESENTO"
	AppointmentStatusCancelled AppointmentStatus = "CANCELADA"
)

// IsValid reports whether s is one of the defined statuses.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInRoom,
		AppointmentStatusAttended, AppointmentStatusNoShow,
		AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusAttended, AppointmentStatusNoShow, AppointmentStatusCancelled:
		return true
	}
	return false
}

// NormalizeStatus maps a stored status value onto the defined enum.
// Legacy rows carry free-text values; anything unrecognized is treated
// as PROGRAMADO rather than rejected.
func NormalizeStatus(raw string) AppointmentStatus {
	s := AppointmentStatus(raw)
	if s.IsValid() {
		return s
	}
	return AppointmentStatusScheduled
}

// ProcedureCode is a CUPS procedure/service code with its specialty label.
type ProcedureCode struct {
	Code      string `db:"cups_code" json:"code"`
	Specialty string `db:"cups_specialty" json:"specialty,omitempty"`
}

type Appointment struct {
	Base
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	PractitionerID   *uuid.UUID        `db:"practitioner_id" json:"practitioner_id,omitempty"`
	PractitionerName string            `db:"practitioner_name" json:"practitioner_name,omitempty"`
	ScheduledAt      time.Time         `db:"scheduled_at" json:"scheduled_at"`
	DurationMins     int               `db:"duration_mins" json:"duration_mins"`
	Reason           string            `db:"reason" json:"reason,omitempty"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Procedure        *ProcedureCode    `json:"procedure,omitempty"`
	CancelReason     *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

const DefaultAppointmentDuration = 30

type CreateAppointmentRequest struct {
	PatientID      uuid.UUID  `json:"patient_id" validate:"required"`
	PractitionerID *uuid.UUID `json:"practitioner_id"`
	ScheduledAt    time.Time  `json:"scheduled_at" validate:"required"`
	DurationMins   int        `json:"duration_mins" validate:"omitempty,min=10,max=240"`
	Reason         string     `json:"reason" validate:"max=1000"`
	CUPSCode       string     `json:"cups_code" validate:"omitempty,max=20"`
	CUPSSpecialty  string     `json:"cups_specialty" validate:"omitempty,max=100"`
}

type ChangeStatusRequest struct {
	Status    AppointmentStatus `json:"status" validate:"required"`
	Reason    string            `json:"reason" validate:"max=1000"`
	Confirmed bool              `json:"confirmed"`
}

// TimeSlot is one bookable window of the day grid. Derived, never stored.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	Label     string    `json:"label"`
	Available bool      `json:"available"`
}

type AppointmentFilters struct {
	PractitionerID *uuid.UUID
	PatientID      *uuid.UUID
	Status         AppointmentStatus
	From           time.Time
	To             time.Time
}
