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
)

type practitionerRepository struct {
	db *sqlx.DB
}

func NewPractitionerRepository(db *sqlx.DB) repository.PractitionerRepository {
	return &practitionerRepository{db: db}
}

func (r *practitionerRepository) Create(ctx context.Context, p *model.Practitioner) error {
	query := `
		INSERT INTO practitioners (id, name, specialty, email, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	p.ID = uuid.New()
	p.Active = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Specialty, p.Email, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	query := `
		SELECT id, name, specialty, email, active, created_at, updated_at
		FROM practitioners
		WHERE id = $1 AND deleted_at IS NULL
	`
	var p model.Practitioner
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("practitioner", err)
		}
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *practitionerRepository) Update(ctx context.Context, p *model.Practitioner) error {
	query := `
		UPDATE practitioners
		SET name = $1, specialty = $2, email = $3, active = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	p.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Specialty, p.Email, p.Active, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update practitioner: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("practitioner", nil)
	}
	return nil
}

func (r *practitionerRepository) ListActive(ctx context.Context) ([]*model.Practitioner, error) {
	query := `
		SELECT id, name, specialty, email, active, created_at, updated_at
		FROM practitioners
		WHERE active = true AND deleted_at IS NULL
		ORDER BY name
	`
	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, query); err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return practitioners, nil
}
