// Package notification provides the outbound notification sink used by the
// follow-up engine: typed notification requests, template rendering, pluggable
// channel senders with retry, an in-memory delivery log, and Echo HTTP handlers.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Kinds and channels
// ---------------------------------------------------------------------------

// Kind is the semantic type of a notification, used for template lookup and
// client-side routing.
type Kind string

const (
	KindFollowUpReminder  Kind = "follow_up_reminder"
	KindFollowUpScheduled Kind = "follow_up_scheduled"
	KindRiskAlert         Kind = "risk_alert"
	KindAdoptionApproved  Kind = "adoption_approved"
	KindGeneral           Kind = "general"
)

// Channel is the delivery channel for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

// ---------------------------------------------------------------------------
// Notification
// ---------------------------------------------------------------------------

// Notification represents a single outbound notification addressed to a
// platform user.
type Notification struct {
	ID            string     `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Kind          Kind       `json:"kind"`
	Channel       Channel    `json:"channel"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Request is the payload accepted by the sink. Callers that already have a
// rendered title and message use it directly; template-driven callers go
// through SendFromTemplate.
type Request struct {
	UserID        uuid.UUID  `json:"user_id"`
	Kind          Kind       `json:"kind"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
}

// Notifier is the interface the follow-up engine depends on. Send failures are
// reported to the caller but are expected to be treated as best-effort there.
type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

// ---------------------------------------------------------------------------
// Sender interfaces
// ---------------------------------------------------------------------------

// EmailSender delivers a message to a user's registered email address.
type EmailSender interface {
	SendEmail(ctx context.Context, userID uuid.UUID, subject, body string) error
}

// PushSender delivers an in-app push message to a user's devices.
type PushSender interface {
	SendPush(ctx context.Context, userID uuid.UUID, title, body string) error
}

// ---------------------------------------------------------------------------
// Template engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	Kind    Kind    `json:"kind"`
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[Kind]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[Kind]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			Kind:    KindFollowUpReminder,
			Name:    "Follow-up Reminder",
			Title:   "How is {{animal_name}} doing?",
			Body:    "Hi {{adopter_name}}, your {{follow_up_type}} check-in for {{animal_name}} was due on {{scheduled_date}}. It only takes a couple of minutes to complete.",
			Channel: ChannelPush,
		},
		{
			Kind:    KindFollowUpScheduled,
			Name:    "Follow-up Scheduled",
			Title:   "A new check-in has been scheduled",
			Body:    "Hi {{adopter_name}}, a follow-up check-in for {{animal_name}} has been scheduled for {{scheduled_date}}.",
			Channel: ChannelPush,
		},
		{
			Kind:    KindRiskAlert,
			Name:    "Adoption Risk Alert",
			Title:   "Follow-up flagged {{risk_level}} risk",
			Body:    "The latest check-in for adoption {{adoption_id}} was scored {{risk_level}} risk. Please review the responses and contact the adopter.",
			Channel: ChannelEmail,
		},
		{
			Kind:    KindAdoptionApproved,
			Name:    "Adoption Approved",
			Title:   "Congratulations on adopting {{animal_name}}!",
			Body:    "Hi {{adopter_name}}, your adoption has been approved. We will check in with you over the coming year to see how {{animal_name}} is settling in.",
			Channel: ChannelEmail,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.Kind] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.Kind] = &t
}

// Render looks up a template by kind and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(kind Kind, data map[string]string) (title, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[kind]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template for kind %q not found", kind)
	}

	title = t.Title
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		title = strings.ReplaceAll(title, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return title, body, nil
}

// ChannelFor returns the delivery channel configured for a kind, defaulting to
// push when the kind has no template.
func (e *TemplateEngine) ChannelFor(kind Kind) Channel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.templates[kind]; ok {
		return t.Channel
	}
	return ChannelPush
}

// ---------------------------------------------------------------------------
// Mock senders (test doubles)
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	UserID  uuid.UUID
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

// SendEmail records the call and optionally returns an error.
func (m *MockEmailSender) SendEmail(_ context.Context, userID uuid.UUID, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{UserID: userID, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// PushCall records a single call to SendPush.
type PushCall struct {
	UserID uuid.UUID
	Title  string
	Body   string
}

// MockPushSender is a test double for PushSender.
type MockPushSender struct {
	mu         sync.Mutex
	calls      []PushCall
	ShouldFail bool
	FailError  string
}

// SendPush records the call and optionally returns an error.
func (m *MockPushSender) SendPush(_ context.Context, userID uuid.UUID, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, PushCall{UserID: userID, Title: title, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded push calls.
func (m *MockPushSender) Calls() []PushCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PushCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager orchestrates sending, storage, and retrieval of notifications. It is
// the concrete Notifier handed to the follow-up engine.
type Manager struct {
	emailSender   EmailSender
	pushSender    PushSender
	templates     *TemplateEngine
	mu            sync.RWMutex
	notifications map[string]*Notification
}

// NewManager constructs a Manager.
func NewManager(email EmailSender, push PushSender, tpl *TemplateEngine) *Manager {
	return &Manager{
		emailSender:   email,
		pushSender:    push,
		templates:     tpl,
		notifications: make(map[string]*Notification),
	}
}

// Notify implements Notifier: it wraps the request in a Notification routed to
// the channel configured for its kind and dispatches it.
func (m *Manager) Notify(ctx context.Context, req Request) error {
	kind := req.Kind
	if kind == "" {
		kind = KindGeneral
	}
	n := &Notification{
		UserID:        req.UserID,
		Kind:          kind,
		Channel:       m.templates.ChannelFor(kind),
		Title:         req.Title,
		Message:       req.Message,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
	}
	return m.Send(ctx, n)
}

// Send dispatches a notification through the appropriate channel, assigns an ID
// and timestamps, and persists the result in the delivery log.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.Status = "pending"

	sendErr := m.dispatch(ctx, n)

	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	m.mu.Lock()
	m.notifications[n.ID] = n
	m.mu.Unlock()

	return sendErr
}

func (m *Manager) dispatch(ctx context.Context, n *Notification) error {
	switch n.Channel {
	case ChannelEmail:
		return m.emailSender.SendEmail(ctx, n.UserID, n.Title, n.Message)
	case ChannelPush:
		return m.pushSender.SendPush(ctx, n.UserID, n.Title, n.Message)
	default:
		return fmt.Errorf("unsupported notification channel: %s", n.Channel)
	}
}

// SendFromTemplate renders the template registered for kind and sends the
// resulting notification.
func (m *Manager) SendFromTemplate(ctx context.Context, kind Kind, data map[string]string, userID uuid.UUID) (*Notification, error) {
	title, body, err := m.templates.Render(kind, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	n := &Notification{
		UserID:  userID,
		Kind:    kind,
		Channel: m.templates.ChannelFor(kind),
		Title:   title,
		Message: body,
	}

	if err := m.Send(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// GetNotification retrieves a notification by ID.
func (m *Manager) GetNotification(_ context.Context, id string) (*Notification, error) {
	m.mu.RLock()
	n, ok := m.notifications[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	return n, nil
}

// ListByUser returns notifications for a given user, up to limit.
func (m *Manager) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// Retry re-sends a failed notification. Returns an error if the notification is
// not in "failed" status.
func (m *Manager) Retry(ctx context.Context, id string) error {
	m.mu.RLock()
	n, ok := m.notifications[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("notification %q not found", id)
	}
	if n.Status != "failed" {
		return fmt.Errorf("notification %q is not in failed status (current: %s)", id, n.Status)
	}

	sendErr := m.dispatch(ctx, n)

	m.mu.Lock()
	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
		n.Error = ""
	}
	m.mu.Unlock()

	return sendErr
}

// Stats returns counts of notifications grouped by status.
func (m *Manager) Stats(_ context.Context) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]int)
	for _, n := range m.notifications {
		stats[n.Status]++
	}
	return stats
}

// ---------------------------------------------------------------------------
// HTTP handler
// ---------------------------------------------------------------------------

// Handler exposes notification operations over HTTP via Echo.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new Handler.
func NewHandler(mgr *Manager) *Handler {
	return &Handler{manager: mgr}
}

// RegisterRoutes registers all notification routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/notifications/send", h.HandleSend)
	g.POST("/notifications/send-template", h.HandleSendTemplate)
	g.GET("/notifications/stats", h.HandleStats)
	g.GET("/notifications/:id", h.HandleGet)
	g.GET("/notifications", h.HandleList)
	g.POST("/notifications/:id/retry", h.HandleRetry)
}

// HandleSend handles POST /notifications/send.
func (h *Handler) HandleSend(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	kind := req.Kind
	if kind == "" {
		kind = KindGeneral
	}
	n := &Notification{
		UserID:        req.UserID,
		Kind:          kind,
		Channel:       h.manager.templates.ChannelFor(kind),
		Title:         req.Title,
		Message:       req.Message,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
	}

	// Return the notification even on send failure so the caller can see the
	// ID and error.
	_ = h.manager.Send(c.Request().Context(), n)
	return c.JSON(http.StatusCreated, n)
}

// sendTemplateRequest is the JSON body for POST /notifications/send-template.
type sendTemplateRequest struct {
	Kind   Kind              `json:"kind"`
	UserID uuid.UUID         `json:"user_id"`
	Data   map[string]string `json:"data"`
}

// HandleSendTemplate handles POST /notifications/send-template.
func (h *Handler) HandleSendTemplate(c echo.Context) error {
	var req sendTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	n, err := h.manager.SendFromTemplate(c.Request().Context(), req.Kind, req.Data, req.UserID)
	if err != nil && n == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, n)
}

// HandleGet handles GET /notifications/:id.
func (h *Handler) HandleGet(c echo.Context) error {
	id := c.Param("id")
	n, err := h.manager.GetNotification(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, n)
}

// HandleList handles GET /notifications?user_id=...
func (h *Handler) HandleList(c echo.Context) error {
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id query parameter is required"})
	}

	list, err := h.manager.ListByUser(c.Request().Context(), userID, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

// HandleRetry handles POST /notifications/:id/retry.
func (h *Handler) HandleRetry(c echo.Context) error {
	id := c.Param("id")
	if err := h.manager.Retry(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	n, _ := h.manager.GetNotification(c.Request().Context(), id)
	return c.JSON(http.StatusOK, n)
}

// HandleStats handles GET /notifications/stats.
func (h *Handler) HandleStats(c echo.Context) error {
	stats := h.manager.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}
