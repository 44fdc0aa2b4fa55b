package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/domain"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util/errorutil"
)

// ToDomainError maps service and framework errors onto the HTTP error envelope.
func ToDomainError(err error) *apperrors.DomainError {
	if err == nil {
		return nil
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		return wrap(apperrors.NewUnauthorized("session is invalid or expired"), err)
	case errors.Is(err, domain.ErrInvalidCredential):
		return wrap(apperrors.NewUnauthorized("invalid email or password"), err)
	case errors.Is(err, domain.ErrProfileNotFound):
		return wrap(apperrors.NewDomainError("PROFILE_NOT_FOUND", "could not load profile", http.StatusNotFound, nil), err)
	case errors.Is(err, domain.ErrRepositoryUnavailable):
		return apperrors.NewServiceUnavailable("profile repository unavailable", err).(*apperrors.DomainError)
	case errors.Is(err, domain.ErrEmailTaken):
		return wrap(apperrors.NewConflict("email already registered", nil), err)
	case errors.Is(err, domain.ErrInvalidProfile):
		return wrap(apperrors.NewValidationError(err.Error(), nil), err)
	case errors.Is(err, domain.ErrProviderDisabled):
		return wrap(apperrors.NewDomainError("PROVIDER_DISABLED", "identity provider not configured", http.StatusNotFound, nil), err)
	}
	return apperrors.ToDomainError(err)
}

func wrap(err error, cause error) *apperrors.DomainError {
	domainErr := err.(*apperrors.DomainError)
	domainErr.Err = cause
	return domainErr
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusRequestTimeout:
		return "TIMEOUT"
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "REQUEST_FAILED"
}
