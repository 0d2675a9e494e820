// Package v1 provides the versioned JSON API handlers.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/auth"
	"github.com/miru4128/gaayatri-project/internal/domain"
	"github.com/miru4128/gaayatri-project/internal/service"
)

const modelErrorDetail = "Unable to contact the GAAYATRI model right now. Please try again shortly."

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes. Everything but /health requires
// authMW.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	api := e.Group("/v1", authMW)
	api.POST("/chat", h.PostChat)
	api.POST("/chat/feedback", h.PostFeedback)
	api.GET("/sessions/:session_id/messages", h.GetSessionMessages)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func identity(c echo.Context) (*auth.Identity, error) {
	id, ok := auth.FromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
	}
	return id, nil
}

// ErrorBody maps a service error to its status code and response body.
func ErrorBody(err error) (int, map[string]interface{}) {
	var modelErr *service.ModelError
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest, failure("empty_message")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, failure("forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, failure("not_found")
	case errors.Is(err, domain.ErrInvalidFeedback):
		return http.StatusBadRequest, failure("invalid_feedback")
	case errors.As(err, &modelErr):
		body := failure("model_error")
		body["detail"] = modelErrorDetail
		body["code"] = modelErr.Code
		body["session_id"] = modelErr.SessionID
		return http.StatusBadGateway, body
	default:
		log.Error().Err(err).Msg("request failed")
		return http.StatusInternalServerError, failure("internal_error")
	}
}

func writeError(c echo.Context, err error) error {
	status, body := ErrorBody(err)
	return c.JSON(status, body)
}

func failure(code string) map[string]interface{} {
	return map[string]interface{}{"ok": false, "error": code}
}
