package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_name, actor_role, action, resource_type, resource_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	log.ID = uuid.New()
	log.CreatedAt = time.Now()

	detail, err := json.Marshal(log.Detail)
	if err != nil {
		return fmt.Errorf("failed to marshal audit detail: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		log.ID,
		log.ActorName,
		log.ActorRole,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		detail,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
