package followup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adopets/adopets/internal/platform/auth"
	"github.com/adopets/adopets/pkg/pagination"
)

func newHandlerEnv() (*Handler, *echo.Echo, *testEnv) {
	env := newTestEnv()
	return NewHandler(env.svc), echo.New(), env
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, actorID uuid.UUID) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, actorID.String())
	req = req.WithContext(ctx)
	return e.NewContext(req, rec)
}

func TestHandler_GenerateSchedule(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.GenerateSchedule(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusCreated { t.Errorf("expected 201, got %d", rec.Code) }

	var res ScheduleResult
	json.Unmarshal(rec.Body.Bytes(), &res)
	if len(res.Created) != 7 { t.Errorf("expected 7 created, got %d", len(res.Created)) }
}

func TestHandler_GenerateSchedule_Conflict(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	env.svc.GenerateSchedule(context.Background(), a.ID)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.GenerateSchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict { t.Fatalf("expected 409, got %v", err) }
}

func TestHandler_GenerateSchedule_BadID(t *testing.T) {
	h, e, _ := newHandlerEnv()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GenerateSchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest { t.Fatalf("expected 400, got %v", err) }
}

func TestHandler_Complete(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	f := env.addPending(a, env.now)

	body := `{"adaptation_level":"excellent","eating_well":true,"sleeping_well":true,
		"using_bathroom_properly":true,"showing_affection":true,"vet_visit_scheduled":false,
		"satisfaction_score":9,"would_recommend":true,"needs_support":false}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, a.AdopterID)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	if err := h.Complete(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }

	var res CompletionResult
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.RiskLevel != RiskLow { t.Errorf("expected low risk, got %s", res.RiskLevel) }
}

func TestHandler_Complete_Forbidden(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	f := env.addPending(a, env.now)

	body := `{"adaptation_level":"excellent","eating_well":true,"sleeping_well":true,
		"using_bathroom_properly":true,"showing_affection":true,"vet_visit_scheduled":false,
		"satisfaction_score":9,"would_recommend":true,"needs_support":false}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.Complete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden { t.Fatalf("expected 403, got %v", err) }
}

func TestHandler_Complete_ValidationError(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	f := env.addPending(a, env.now)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"adaptation_level":"excellent"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, a.AdopterID)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.Complete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest { t.Fatalf("expected 400, got %v", err) }
}

func TestHandler_Complete_NoSubject(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	f := env.addPending(a, env.now)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.Complete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized { t.Fatalf("expected 401, got %v", err) }
}

func TestHandler_Skip(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	f := env.addPending(a, env.now)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, a.AdopterID)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	if err := h.Skip(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	if rec.Code != http.StatusOK { t.Errorf("expected 200, got %d", rec.Code) }

	// Second skip conflicts.
	rec2 := httptest.NewRecorder()
	c2 := authedContext(e, httptest.NewRequest(http.MethodPost, "/", nil), rec2, a.AdopterID)
	c2.SetParamNames("id")
	c2.SetParamValues(f.ID.String())
	err := h.Skip(c2)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict { t.Fatalf("expected 409, got %v", err) }
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e, _ := newHandlerEnv()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound { t.Fatalf("expected 404, got %v", err) }
}

func TestHandler_ListByAdoption(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	env.svc.GenerateSchedule(context.Background(), a.ID)

	req := httptest.NewRequest(http.MethodGet, "/?limit=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.ListByAdoption(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	var res pagination.Response
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Total != 7 { t.Errorf("expected total 7, got %d", res.Total) }
}

func TestHandler_ListMine_BadStatusFilter(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)

	req := httptest.NewRequest(http.MethodGet, "/?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, a.AdopterID)

	err := h.ListMine(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest { t.Fatalf("expected 400, got %v", err) }
}

func TestHandler_RunSweep(t *testing.T) {
	h, e, env := newHandlerEnv()
	a := env.addAdoption(true)
	env.addPending(a, env.now.AddDate(0, 0, -1))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RunSweep(c); err != nil { t.Fatalf("unexpected error: %v", err) }
	var res map[string]int
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res["reminders_sent"] != 1 { t.Errorf("expected 1 reminder, got %d", res["reminders_sent"]) }
}
