// Package producer defines the interface for publishing audit events to an
// external sink (e.g. Kafka, OTel logs). The core treats the sink as
// fire-and-forget; persistence of published events is the consumer's problem.
package producer

import (
	"context"

	"org-access-control-plane/internal/audit/domain"
)

// Producer publishes audit events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single audit event. Implementations may block briefly; call
	// via audit.EmitAsync from request paths. Returns an error only on write
	// failure; callers typically log and ignore.
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
