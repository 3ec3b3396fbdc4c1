package reminder

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reminders", auth.RequireRole(auth.RolePatient))
	g.POST("/generate", h.Generate)
	g.GET("", h.List)
	g.GET("/today", h.Today)
	g.PUT("/mark-taken", h.MarkTaken)
	g.PUT("/snooze", h.Snooze)
}

type generateRequest struct {
	MedicationID uuid.UUID            `json:"medicationId"`
	Frequency    medication.Frequency `json:"frequency"`
	TimeOfDay    string               `json:"time"`
}

func (h *Handler) Generate(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	batch, err := h.svc.Generate(c.Request().Context(), caller, req.MedicationID, req.Frequency, req.TimeOfDay)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"count": len(batch),
		"data":  batch,
	})
}

func (h *Handler) List(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	var date *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = &d
	}
	page := pagination.FromContext(c)
	reminders, total, err := h.svc.List(c.Request().Context(), caller, date, page)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reminders, total, page.Limit, page.Offset))
}

func (h *Handler) Today(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	page := pagination.FromContext(c)
	reminders, total, err := h.svc.Today(c.Request().Context(), caller, page)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reminders, total, page.Limit, page.Offset))
}

type markTakenRequest struct {
	ReminderID uuid.UUID `json:"reminderId"`
}

func (h *Handler) MarkTaken(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	var req markTakenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ReminderID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reminderId is required")
	}
	r, err := h.svc.MarkTaken(c.Request().Context(), caller, req.ReminderID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

type snoozeRequest struct {
	ReminderID    uuid.UUID `json:"reminderId"`
	SnoozeMinutes int       `json:"snoozeMinutes"`
}

func (h *Handler) Snooze(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	var req snoozeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ReminderID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reminderId is required")
	}
	r, minutes, err := h.svc.Snooze(c.Request().Context(), caller, req.ReminderID, req.SnoozeMinutes)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reminder":      r,
		"snoozeMinutes": minutes,
	})
}
