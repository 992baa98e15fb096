package model

type Practitioner struct {
	Base
	Name      string `db:"name" json:"name"`
	Specialty string `db:"specialty" json:"specialty,omitempty"`
	Email     string `db:"email" json:"email,omitempty"`
	Active    bool   `db:"active" json:"active"`
}

type CreatePractitionerRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Specialty string `json:"specialty" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type UpdatePractitionerRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	Specialty *string `json:"specialty" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Active    *bool   `json:"active"`
}
