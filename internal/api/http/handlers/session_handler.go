package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
	"github.com/spec-kit/hospital-portal/internal/repository"
	"github.com/spec-kit/hospital-portal/internal/session"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util/errorutil"
)

const defaultHeartbeat = 15 * time.Second

// SessionHandler streams the caller's session state as server-sent events.
type SessionHandler struct {
	dispatcher events.Dispatcher
	profiles   repository.ProfileReader
	heartbeat  time.Duration
	logger     *zap.Logger
}

// NewSessionHandler constructs handler. A non-positive heartbeat uses the default.
func NewSessionHandler(dispatcher events.Dispatcher, profiles repository.ProfileReader, heartbeat time.Duration, logger *zap.Logger) *SessionHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &SessionHandler{dispatcher: dispatcher, profiles: profiles, heartbeat: heartbeat, logger: logger}
}

// Stream handles GET /:role/session/stream. The stream ends when the caller signs out or
// disconnects.
func (h *SessionHandler) Stream(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	identity := principal.Identity
	collection := principal.Role.Collection()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	heartbeat := h.heartbeat
	logger := h.logger
	// Identity subscriptions live only while the body is written.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		observer := h.observe(&identity, collection)
		defer observer.Close()
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case state := <-observer.Updates():
				if err := writeSessionEvent(w, state); err != nil {
					logger.Debug("session stream closed", zap.Error(err))
					return
				}
				if state.Status == session.StatusReady && state.Identity == nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-observer.Done():
				return
			}
		}
	})
	return nil
}

func (h *SessionHandler) observe(identity *domain.Identity, collection domain.Collection) *session.Observer {
	return session.Observe(session.NewSubjectSource(h.dispatcher, identity), h.profiles, collection, h.logger)
}

func writeSessionEvent(w *bufio.Writer, state session.State) error {
	payload := dto.SessionStateResponse{
		Status:  string(state.Status),
		Loading: state.Loading(),
		Profile: dto.NewProfileResponse(state.Profile),
	}
	if state.Err != nil {
		payload.Error = sessionErrorMessage(state.Err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", body); err != nil {
		return err
	}
	return w.Flush()
}

func sessionErrorMessage(err error) string {
	return ToDomainError(err).Message
}
