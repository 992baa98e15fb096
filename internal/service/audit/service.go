package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
	"github.com/clinigo/agenda-api/pkg/logger"
)

// Service writes the audit trail. Failures are logged and swallowed:
// auditing must never fail the operation it describes.
type Service struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Log(ctx context.Context, caller model.Caller, action, resourceType string, resourceID uuid.UUID, detail model.JSONMap) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &model.AuditLog{
		ActorName:    caller.Name,
		ActorRole:    caller.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil && s.log != nil {
		s.log.Error(err, "failed to write audit log", "action", action, "resource_id", resourceID.String())
	}
}
