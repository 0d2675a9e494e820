package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/auth"
	"github.com/miru4128/gaayatri-project/internal/domain"
	"github.com/miru4128/gaayatri-project/internal/repository"
	"github.com/miru4128/gaayatri-project/internal/service"
	"github.com/miru4128/gaayatri-project/internal/testutil"
	"github.com/miru4128/gaayatri-project/policy"
)

func newTestHandler(t *testing.T, client llm.LLMClient) (*Handler, *repository.SQLiteStore) {
	db := testutil.NewTestSQLiteStore(t)
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	svc := service.New(db, client, policyEngine, nil, nil, nil, service.Config{})
	return NewHandler(svc), db
}

func newContext(e *echo.Echo, method, target, body string, identity *auth.Identity) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		auth.WithIdentity(c, identity)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

var farmer = &auth.Identity{UserID: "u1", Role: "farmer"}

func TestPostChatSuccess(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":"My cow has mastitis, what should I do?","context":{"breed":"Gir"}}`, farmer)
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.SessionID == "" || resp.BotMessageID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Decision != domain.DecisionProceed {
		t.Fatalf("expected proceed, got %s", resp.Decision)
	}
	if !strings.Contains(resp.Reply, "[MOCK]") {
		t.Fatalf("expected mock reply, got %q", resp.Reply)
	}
}

func TestPostChatEmptyMessage(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":"   "}`, farmer)
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "empty_message" || body["ok"] != false {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPostChatInvalidPayload(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":`, farmer)
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "invalid_payload" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPostChatRequiresFarmerRole(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":"hello"}`, &auth.Identity{UserID: "v1", Role: "vet"})
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := decode(t, rec); body["detail"] != "chatbot available to farmers only" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPostChatWithoutIdentity(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, _ := newContext(e, http.MethodPost, "/v1/chat", `{"message":"hello"}`, nil)
	err := h.PostChat(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPostChatModelError(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t, llm.NewClient("", "", time.Second))

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":"How much fodder for a dairy cow?"}`, farmer)
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["error"] != "model_error" || body["code"] != llm.CodeConfigMissing {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["detail"] != modelErrorDetail {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("expected session_id in body: %v", body)
	}

	count, err := db.CountMessages(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the user message to be kept, got %d messages", count)
	}
}

func TestPostFeedback(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodPost, "/v1/chat", `{"message":"hello"}`, farmer)
	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	tests := []struct {
		name     string
		identity *auth.Identity
		body     string
		status   int
		errCode  string
	}{
		{"missing feedback", farmer, `{"message_id":"` + resp.BotMessageID + `"}`, http.StatusBadRequest, "invalid_payload"},
		{"malformed", farmer, `not json`, http.StatusBadRequest, "invalid_payload"},
		{"unknown message", farmer, `{"message_id":"msg_missing","feedback":1}`, http.StatusNotFound, "not_found"},
		{"other user", &auth.Identity{UserID: "u2", Role: "farmer"}, `{"message_id":"` + resp.BotMessageID + `","feedback":1}`, http.StatusForbidden, "forbidden"},
		{"out of range", farmer, `{"message_id":"` + resp.BotMessageID + `","feedback":5}`, http.StatusBadRequest, "invalid_feedback"},
		{"ok", farmer, `{"message_id":"` + resp.BotMessageID + `","feedback":-1}`, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(e, http.MethodPost, "/v1/chat/feedback", tt.body, tt.identity)
			if err := h.PostFeedback(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			body := decode(t, rec)
			if tt.errCode == "" {
				if body["ok"] != true {
					t.Fatalf("expected ok, got %v", body)
				}
				return
			}
			if body["error"] != tt.errCode {
				t.Fatalf("expected %s, got %v", tt.errCode, body)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, llm.NewMockClient())

	c, rec := newContext(e, http.MethodGet, "/health", "", nil)
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
