// Package audit exposes the audit extension point: services report who did
// what, and configured sinks (Postgres, Kafka, OTel) receive it best-effort.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"org-access-control-plane/internal/audit/domain"
	"org-access-control-plane/internal/audit/producer"
	auditrepo "org-access-control-plane/internal/audit/repository"
)

// SentinelOrgID is the org_id recorded for audit events that have no org yet
// (e.g. invite acceptance before the caller has any membership).
const SentinelOrgID = "_system"

// IPExtractor returns the client IP from the request context (e.g. gRPC metadata or peer).
type IPExtractor func(context.Context) string

// Recorder is the extension point services use to report audit events.
// Implementations must be best-effort: a failing sink never fails the
// operation being audited.
type Recorder interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, entityID, metadata string)
}

// NopRecorder discards all events. Useful in tests and when auditing is disabled.
type NopRecorder struct{}

func (NopRecorder) LogEvent(context.Context, string, string, string, string, string, string) {}

// Logger implements Recorder by persisting events to the audit repository and
// publishing them to an optional producer (e.g. Kafka). Both are best-effort.
type Logger struct {
	repo        auditrepo.Repository
	producer    producer.Producer
	ipExtractor IPExtractor
}

// NewLogger returns a Recorder that persists to repo and publishes to prod.
// repo, prod, and ipExtractor may each be nil; a nil repo or prod disables
// that sink, a nil ipExtractor records IP as "unknown".
func NewLogger(repo auditrepo.Repository, prod producer.Producer, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, producer: prod, ipExtractor: ipExtractor}
}

// LogEvent writes one audit event to every configured sink. Best-effort:
// errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, orgID, userID, action, resource, entityID, metadata string) {
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if orgID == "" {
		orgID = SentinelOrgID
	}
	event := &domain.Event{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		EntityID:  entityID,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, event); err != nil {
			log.Printf("audit: failed to persist event %s/%s: %v", action, resource, err)
		}
	}
	EmitAsync(l.producer, event)
}
