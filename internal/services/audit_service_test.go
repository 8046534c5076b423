package services

import (
	"context"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/repository"
)

func TestAuditService_Log(t *testing.T) {
	s := newTestServices(t)
	audit := NewAuditService(repository.NewRepository[models.AuditLog](s.db))

	audit.Log(context.Background(), "root", AuditGrantAdmin, models.EntityUser, "u1", "10.0.0.1",
		map[string]interface{}{"roles": []string{"USER", "ADMIN"}})
	audit.Log(context.Background(), "root", AuditDeleteExpense, models.EntityExpense, "e1", "", nil)

	var logs []models.AuditLog
	if err := s.db.Order("action").Find(&logs).Error; err != nil {
		t.Fatalf("failed to read audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}

	deleted, granted := logs[0], logs[1]
	if deleted.Action != AuditDeleteExpense || deleted.Changes != "" {
		t.Errorf("unexpected delete entry %+v", deleted)
	}
	if granted.Actor != "root" || granted.ResourceID != "u1" || granted.IPAddress != "10.0.0.1" {
		t.Errorf("unexpected grant entry %+v", granted)
	}
	if granted.Changes != `{"roles":["USER","ADMIN"]}` {
		t.Errorf("unexpected changes %q", granted.Changes)
	}
}

func TestAuditService_LogStoreFailureIsSwallowed(t *testing.T) {
	s := newTestServices(t)
	audit := NewAuditService(repository.NewRepository[models.AuditLog](s.db))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// must not panic or return anything
	audit.Log(ctx, "root", AuditDeleteUser, models.EntityUser, "u1", "", nil)
}
