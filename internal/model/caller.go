package model

import "github.com/google/uuid"

// Role is the fixed enumeration of user roles. Administrative tiers run the
// front desk; clinical tiers attend patients.
type Role string

const (
	RoleAdmin        Role = "ADMINISTRADOR"
	RoleReceptionist Role = "RECEPCIONISTA"
	RoleDoctor       Role = "MEDICO"
	RoleSpecialist   Role = "ESPECIALISTA"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleDoctor, RoleSpecialist:
		return true
	}
	return false
}

// IsClinical reports whether the role attends patients directly.
func (r Role) IsClinical() bool {
	return r == RoleDoctor || r == RoleSpecialist
}

// IsAdministrative reports whether the role sees the full agenda.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleReceptionist
}

// CanMarkAttended reports whether the role may move an appointment to
// ATENDIDO. Only clinical roles carry that capability.
func (r Role) CanMarkAttended() bool {
	return r.IsClinical()
}

// Caller identifies the acting user on a request. It is supplied per call
// and never stored by the scheduling core.
type Caller struct {
	Role           Role       `json:"role"`
	Name           string     `json:"name"`
	PractitionerID *uuid.UUID `json:"practitioner_id,omitempty"`
}
