package model

import "time"

type Patient struct {
	Base
	Name        string     `db:"name" json:"name"`
	DocumentID  string     `db:"document_id" json:"document_id"`
	Email       string     `db:"email" json:"email,omitempty"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
}

type CreatePatientRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	DocumentID  string     `json:"document_id" validate:"required,max=30"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Phone       string     `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

type PatientFilters struct {
	SearchTerm string
	DocumentID string
}
