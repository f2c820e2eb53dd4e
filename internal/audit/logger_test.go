package audit

import (
	"context"
	"errors"
	"testing"

	"org-access-control-plane/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.Event
	createErr error
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return nil, nil
}

func (m *mockAuditRepo) Create(ctx context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, event)
	return nil
}

func (m *mockAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Event, error) {
	return nil, nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	ipExtractor := func(ctx context.Context) string { return "192.168.1.1" }
	logger := NewLogger(repo, nil, ipExtractor)

	logger.LogEvent(context.Background(), "org-1", "user-1", "invite_accepted", "invite", "inv-1", "meta")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.OrgID != "org-1" {
		t.Errorf("org_id = %q, want %q", entry.OrgID, "org-1")
	}
	if entry.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", entry.UserID, "user-1")
	}
	if entry.Action != "invite_accepted" {
		t.Errorf("action = %q, want %q", entry.Action, "invite_accepted")
	}
	if entry.Resource != "invite" {
		t.Errorf("resource = %q, want %q", entry.Resource, "invite")
	}
	if entry.EntityID != "inv-1" {
		t.Errorf("entity_id = %q, want %q", entry.EntityID, "inv-1")
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil, nil)

	logger.LogEvent(context.Background(), "org-1", "user-1", "action", "resource", "", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
	}
}

func TestLogger_LogEvent_SentinelOrgID(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil, nil)

	logger.LogEvent(context.Background(), "", "user-1", "action", "resource", "", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].OrgID != SentinelOrgID {
		t.Errorf("org_id = %q, want %q", repo.entries[0].OrgID, SentinelOrgID)
	}
}

func TestLogger_LogEvent_RepoErrorDoesNotPanic(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	logger := NewLogger(repo, nil, nil)

	// Best-effort: the failing sink must not panic or surface an error.
	logger.LogEvent(context.Background(), "org-1", "user-1", "action", "resource", "", "")
}

func TestLogger_LogEvent_NilRepo(t *testing.T) {
	logger := NewLogger(nil, nil, nil)

	logger.LogEvent(context.Background(), "org-1", "user-1", "action", "resource", "", "")
}

func TestNopRecorder(t *testing.T) {
	NopRecorder{}.LogEvent(context.Background(), "org-1", "user-1", "action", "resource", "", "")
}
