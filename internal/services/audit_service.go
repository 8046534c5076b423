package services

import (
	"context"
	"encoding/json"

	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
)

// Audit actions.
const (
	AuditGrantAdmin    = "GRANT_ADMIN"
	AuditUpdateUser    = "UPDATE_USER"
	AuditDeleteUser    = "DELETE_USER"
	AuditDeleteExpense = "DELETE_EXPENSE"
)

// auditService handles audit log recording.
type auditService struct {
	logs *repository.Repository[models.AuditLog]
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(logs *repository.Repository[models.AuditLog]) AuditServicer {
	return &auditService{logs: logs}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.logs.Save(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor", actor,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
