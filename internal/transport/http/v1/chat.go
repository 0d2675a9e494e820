package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// PostChat submits a farmer's message.
// POST /v1/chat
func (h *Handler) PostChat(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure("invalid_payload"))
	}
	req.UserID = id.UserID
	req.UserRole = id.Role
	req.ClientIP = c.RealIP()

	resp, err := h.service.SubmitMessage(c.Request().Context(), req)
	if errors.Is(err, domain.ErrForbidden) {
		body := failure("forbidden")
		body["detail"] = "chatbot available to farmers only"
		return c.JSON(http.StatusForbidden, body)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PostFeedback rates a bot message.
// POST /v1/chat/feedback
func (h *Handler) PostFeedback(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req domain.FeedbackRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil || req.MessageID == "" || req.Feedback == nil {
		return c.JSON(http.StatusBadRequest, failure("invalid_payload"))
	}

	if err := h.service.SubmitFeedback(c.Request().Context(), id.UserID, req.MessageID, *req.Feedback); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
