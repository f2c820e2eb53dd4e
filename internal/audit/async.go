package audit

import (
	"context"
	"log"
	"time"

	"org-access-control-plane/internal/audit/domain"
	"org-access-control-plane/internal/audit/producer"
)

// emitTimeout is the max time allowed for a single async emit. Used by EmitAsync and ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after gRPC GracefulStop before
// closing the producer, so in-flight async emits have time to complete.
// Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not
// blocked by a slow broker. Errors are logged.
//
// prod and event may be nil; EmitAsync then returns without starting a
// goroutine. The goroutine uses context.Background() so request cancellation
// does not abort an in-flight emit.
func EmitAsync(prod producer.Producer, event *domain.Event) {
	if prod == nil || event == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := prod.Emit(emitCtx, event); err != nil {
			log.Printf("audit: async emit failed: %v", err)
		}
	}()
}
