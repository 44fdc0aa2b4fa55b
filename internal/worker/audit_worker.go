package worker

import (
	"github.com/spec-kit/hospital-portal/internal/service"
)

// StartAuditWorker registers audit handlers and returns the func that stops them.
func StartAuditWorker(auditService *service.AuditService) (stop func()) {
	if auditService == nil {
		return func() {}
	}
	return auditService.RegisterHandlers()
}
