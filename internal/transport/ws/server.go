// Package ws serves the realtime chat socket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/auth"
	"github.com/miru4128/gaayatri-project/internal/domain"
	"github.com/miru4128/gaayatri-project/internal/service"
)

// ChatService is the part of the intake pipeline the socket drives.
type ChatService interface {
	SubmitMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
	SubmitFeedback(ctx context.Context, userID, messageID string, score int) error
}

// Config holds socket limits.
type Config struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

func (c Config) withDefaults() Config {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.ReadTimeout {
		c.PingInterval = c.ReadTimeout * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 64 * 1024
	}
	return c
}

// Handler upgrades authenticated requests and runs one chat loop per
// connection.
type Handler struct {
	service  ChatService
	cfg      Config
	upgrader websocket.Upgrader
}

// NewHandler creates a new socket handler.
func NewHandler(svc ChatService, cfg Config) *Handler {
	return &Handler{
		service: svc,
		cfg:     cfg.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type connection struct {
	ws        *websocket.Conn
	send      chan []byte
	identity  *auth.Identity
	clientIP  string
	sessionID string

	closeOnce sync.Once
	done      chan struct{}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// Serve handles GET /v1/chat/ws.
func (h *Handler) Serve(c echo.Context) error {
	identity, ok := auth.FromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
	}

	wsConn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		log.Warn().Err(err).Msg("failed to upgrade websocket")
		return nil
	}

	conn := &connection{
		ws:       wsConn,
		send:     make(chan []byte, 16),
		identity: identity,
		clientIP: c.RealIP(),
		done:     make(chan struct{}),
	}
	wsConn.SetReadLimit(h.cfg.MaxMessageSize)
	log.Debug().Str("user_id", identity.UserID).Msg("websocket connected")

	go h.writePump(conn)
	go h.readPump(conn)
	return nil
}

// readPump handles frames in order. A chat frame blocks the loop until its
// reply is queued so replies keep the order of their questions.
func (h *Handler) readPump(conn *connection) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		conn.close()
		log.Debug().Str("user_id", conn.identity.UserID).Msg("websocket closed")
	}()

	conn.ws.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
		return nil
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		h.handleFrame(ctx, conn, data)
		conn.ws.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	}
}

func (h *Handler) writePump(conn *connection) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.close()
	}()

	for {
		select {
		case <-conn.done:
			return

		case message := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleFrame(ctx context.Context, conn *connection, data []byte) {
	var base BaseFrame
	if err := json.Unmarshal(data, &base); err != nil {
		h.sendError(conn, base, ErrorCodeInvalidMessage, "invalid JSON frame", "")
		return
	}

	switch base.Type {
	case TypeChat:
		h.handleChat(ctx, conn, data)
	case TypeFeedback:
		h.handleFeedback(ctx, conn, data)
	default:
		h.sendError(conn, base, ErrorCodeInvalidMessage, "unknown frame type: "+base.Type, "")
	}
}

func (h *Handler) handleChat(ctx context.Context, conn *connection, data []byte) {
	var frame ChatFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.sendError(conn, frame.BaseFrame, ErrorCodeInvalidMessage, "invalid chat frame", "")
		return
	}

	sessionID := frame.SessionID
	if sessionID == "" {
		sessionID = conn.sessionID
	}

	resp, err := h.service.SubmitMessage(ctx, domain.ChatRequest{
		UserID:    conn.identity.UserID,
		UserRole:  conn.identity.Role,
		ClientIP:  conn.clientIP,
		SessionID: sessionID,
		Message:   frame.Message,
		Context:   frame.Context,
	})
	if err != nil {
		var modelErr *service.ModelError
		if errors.As(err, &modelErr) {
			conn.sessionID = modelErr.SessionID
			frame.SessionID = modelErr.SessionID
		}
		h.sendServiceError(conn, frame.BaseFrame, err)
		return
	}

	conn.sessionID = resp.SessionID
	h.sendJSON(conn, ReplyFrame{
		BaseFrame: BaseFrame{
			Type:      TypeReply,
			Ts:        time.Now().UnixMilli(),
			RequestID: frame.RequestID,
			SessionID: resp.SessionID,
		},
		Reply:        resp.Reply,
		BotMessageID: resp.BotMessageID,
		Decision:     string(resp.Decision),
	})
}

func (h *Handler) handleFeedback(ctx context.Context, conn *connection, data []byte) {
	var frame FeedbackFrame
	if err := json.Unmarshal(data, &frame); err != nil || frame.MessageID == "" || frame.Feedback == nil {
		h.sendError(conn, frame.BaseFrame, ErrorCodeInvalidMessage, "message_id and feedback are required", "")
		return
	}

	if err := h.service.SubmitFeedback(ctx, conn.identity.UserID, frame.MessageID, *frame.Feedback); err != nil {
		h.sendServiceError(conn, frame.BaseFrame, err)
		return
	}

	h.sendJSON(conn, FeedbackAckFrame{
		BaseFrame: BaseFrame{
			Type:      TypeFeedbackAck,
			Ts:        time.Now().UnixMilli(),
			RequestID: frame.RequestID,
		},
		MessageID: frame.MessageID,
	})
}

func (h *Handler) sendServiceError(conn *connection, frame BaseFrame, err error) {
	var modelErr *service.ModelError
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		h.sendError(conn, frame, ErrorCodeEmptyMessage, "message is empty", "")
	case errors.Is(err, domain.ErrForbidden):
		h.sendError(conn, frame, ErrorCodeForbidden, "chatbot available to farmers only", "")
	case errors.Is(err, domain.ErrNotFound):
		h.sendError(conn, frame, ErrorCodeNotFound, "message not found", "")
	case errors.Is(err, domain.ErrInvalidFeedback):
		h.sendError(conn, frame, ErrorCodeInvalidFeedback, "feedback must be -1, 0 or 1", "")
	case errors.As(err, &modelErr):
		h.sendError(conn, frame, ErrorCodeModelError, "Unable to contact the GAAYATRI model right now. Please try again shortly.", modelErr.Code)
	default:
		log.Error().Err(err).Msg("websocket request failed")
		h.sendError(conn, frame, ErrorCodeInternalError, "internal error", "")
	}
}

func (h *Handler) sendError(conn *connection, frame BaseFrame, code, message, modelCode string) {
	h.sendJSON(conn, ErrorFrame{
		BaseFrame: BaseFrame{
			Type:      TypeError,
			Ts:        time.Now().UnixMilli(),
			RequestID: frame.RequestID,
			SessionID: frame.SessionID,
		},
		Code:      code,
		Message:   message,
		ModelCode: modelCode,
	})
}

func (h *Handler) sendJSON(conn *connection, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal frame")
		return
	}
	select {
	case conn.send <- data:
	case <-conn.done:
	}
}
