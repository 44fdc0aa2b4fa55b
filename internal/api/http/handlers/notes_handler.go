package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util/errorutil"
)

const maxNotesLen = 20000

// NotesHandler serves consultation-note summaries to doctors.
type NotesHandler struct {
	summarizer service.Summarizer
	logger     *zap.Logger
}

// NewNotesHandler constructs handler.
func NewNotesHandler(summarizer service.Summarizer, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{summarizer: summarizer, logger: logger}
}

// Summarize handles POST /doctor/api/notes/summarize.
func (h *NotesHandler) Summarize(c *fiber.Ctx) error {
	var req dto.SummarizeNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Notes) > maxNotesLen {
		return fiber.NewError(http.StatusRequestEntityTooLarge, "notes too long")
	}

	summary, err := h.summarizer.Summarize(c.UserContext(), req.Notes)
	if errors.Is(err, service.ErrEmptyNotes) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err != nil {
		h.logger.Warn("summarizer failed", zap.Error(err))
		return &apperrors.DomainError{
			Code:       "SUMMARIZER_UNAVAILABLE",
			Message:    "note summarizer unavailable",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	return c.JSON(fiber.Map{"data": dto.SummarizeNotesResponse{
		Summary:       summary.Summary,
		Diagnosis:     summary.Diagnosis,
		Prescriptions: summary.Prescriptions,
		FollowUp:      summary.FollowUp,
	}})
}
