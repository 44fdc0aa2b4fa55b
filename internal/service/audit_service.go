package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/events"
	"github.com/spec-kit/hospital-portal/internal/observability"
)

// AuditService writes an audit line and a metric for every identity and profile event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events and returns a func that removes the subscription.
func (a *AuditService) RegisterHandlers() (unsubscribe func()) {
	if a.dispatcher == nil {
		return func() {}
	}
	return a.dispatcher.SubscribeAll(a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.metrics.RecordIdentityEvent(string(event.Type))

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Time("at", event.Timestamp),
	}
	if event.Identity != nil && event.Identity.Role.Valid() {
		fields = append(fields, zap.String("role", string(event.Identity.Role)))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info("audit", fields...)
	return nil
}
