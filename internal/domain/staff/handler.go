package staff

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/auth"
	"github.com/singh-deepanshu-578/SmartCare-HMS/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, _ *echo.Group) {
	// Self-service for the signed-in doctor
	me := api.Group("/doctors/me", auth.RequireRole(auth.RoleDoctor), auth.RequireDoctor())
	me.POST("/login", h.Login)
	me.POST("/logout", h.Logout)

	readGroup := api.Group("", auth.RequireRole(auth.RoleDoctor))
	readGroup.GET("/doctors", h.ListDoctors)
	readGroup.GET("/doctors/:id", h.GetDoctor)
	readGroup.GET("/doctors/:id/activity", h.ListActivity)
	readGroup.PATCH("/doctors/:id/status", h.SetStatus)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.POST("/doctors", h.CreateDoctor)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	var f DoctorFilter
	if v := c.QueryParam("specialization"); v != "" {
		sp, ok := triage.ParseSpecialization(v)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid specialization")
		}
		f.Specialization = sp
	}
	if v := c.QueryParam("status"); v != "" {
		st, ok := triage.ParseAvailability(v)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = st
	}
	items, total, err := h.svc.ListDoctors(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListActivity(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus changes a doctor's availability. Doctors may only change their
// own; admins may change anyone's.
func (h *Handler) SetStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		self, ok := auth.DoctorIDFromContext(ctx)
		if !ok || self != id {
			return echo.NewHTTPError(http.StatusForbidden, "doctors may only change their own status")
		}
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.SetAvailability(ctx, id, req.Status)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	id, _ := auth.DoctorIDFromContext(ctx)
	d, err := h.svc.Login(ctx, id)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	id, _ := auth.DoctorIDFromContext(ctx)
	d, err := h.svc.Logout(ctx, id)
	if err != nil {
		return mapDoctorError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func mapDoctorError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	case errors.Is(err, ErrDuplicateCode):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
