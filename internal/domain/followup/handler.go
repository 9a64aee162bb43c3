package followup

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adopets/adopets/internal/domain/adoption"
	"github.com/adopets/adopets/internal/platform/auth"
	"github.com/adopets/adopets/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/adoptions/:id/follow-ups", h.GenerateSchedule)
	api.GET("/adoptions/:id/follow-ups", h.ListByAdoption)

	api.GET("/follow-ups/upcoming", h.ListUpcoming)
	api.GET("/follow-ups/mine", h.ListMine)
	api.GET("/follow-ups/:id", h.Get)
	api.POST("/follow-ups/:id/complete", h.Complete)
	api.POST("/follow-ups/:id/skip", h.Skip)

	admin := api.Group("", auth.RequireRole("admin", "organization"))
	admin.POST("/follow-ups/sweep", h.RunSweep)
	admin.GET("/follow-ups/stats", h.Stats)
	admin.GET("/follow-ups/trends", h.MonthlyTrend)
}

func (h *Handler) GenerateSchedule(c echo.Context) error {
	adoptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid adoption id")
	}
	result, err := h.svc.GenerateSchedule(c.Request().Context(), adoptionID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListByAdoption(c echo.Context) error {
	adoptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid adoption id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByAdoption(c.Request().Context(), adoptionID, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListMine(c echo.Context) error {
	actorID, err := actorFromContext(c)
	if err != nil {
		return err
	}
	status := Status(c.QueryParam("status"))
	if status != "" && !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByAdopter(c.Request().Context(), actorID, status, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	actorID, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > pagination.MaxLimit {
		limit = 5
	}
	items, err := h.svc.ListUpcoming(c.Request().Context(), actorID, limit)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actorID, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req CompletionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Complete(c.Request().Context(), id, actorID, &req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Skip(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actorID, err := actorFromContext(c)
	if err != nil {
		return err
	}
	f, err := h.svc.Skip(c.Request().Context(), id, actorID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// RunSweep triggers the reminder sweep on demand, same code path as the cron
// schedule.
func (h *Handler) RunSweep(c echo.Context) error {
	sent, errs, aged, err := h.svc.RunReminderSweep(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{
		"reminders_sent":  sent,
		"reminder_errors": errs,
		"aged_out":        aged,
	})
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) MonthlyTrend(c echo.Context) error {
	months, _ := strconv.Atoi(c.QueryParam("months"))
	points, err := h.svc.MonthlyTrend(c.Request().Context(), months)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, points)
}

func actorFromContext(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid subject")
	}
	return id, nil
}

func mapError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, adoption.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyCompleted), errors.Is(err, ErrScheduleExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
