package producer

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"org-access-control-plane/internal/audit/domain"
)

// NewOTelProducer returns a Producer that publishes audit events as OTel log
// records via the given LoggerProvider. If provider is nil, returns a no-op.
func NewOTelProducer(provider *sdklog.LoggerProvider) Producer {
	if provider == nil {
		return nopProducer{}
	}
	return &otelProducer{logger: provider.Logger("oacp.audit")}
}

type nopProducer struct{}

func (nopProducer) Emit(context.Context, *domain.Event) error { return nil }
func (nopProducer) Close() error                              { return nil }

type otelProducer struct {
	logger otellog.Logger
}

// Emit converts the audit event to an OTel log record and emits it.
func (p *otelProducer) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetBody(otellog.StringValue(event.Action + " " + event.Resource))
	if event.OrgID != "" {
		rec.AddAttributes(otellog.String("org_id", event.OrgID))
	}
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.EntityID != "" {
		rec.AddAttributes(otellog.String("entity_id", event.EntityID))
	}
	if event.Action != "" {
		rec.AddAttributes(otellog.String("action", event.Action))
	}
	if event.Resource != "" {
		rec.AddAttributes(otellog.String("resource", event.Resource))
	}
	if event.IP != "" {
		rec.AddAttributes(otellog.String("ip", event.IP))
	}
	p.logger.Emit(ctx, rec)
	return nil
}

func (p *otelProducer) Close() error { return nil }
