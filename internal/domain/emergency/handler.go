package emergency

import (
	"errors"
	"net/http"
	"time"

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
	// Patient-facing intake and tracking
	api.POST("/emergency-cases", h.CreateCase)
	api.GET("/emergency-cases/track/:token", h.TrackCase)
	api.GET("/emergency-queue", h.Queue)
	api.POST("/home-care", h.CreateHomeCare)
	api.GET("/home-care/:token", h.GetHomeCare)

	// Doctor dashboard and case handling
	doctorGroup := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctorGroup.GET("/emergency-cases/:id", h.GetCase)
	doctorGroup.PUT("/emergency-cases/:id", h.UpdateCase)
	doctorGroup.PATCH("/emergency-cases/:id/status", h.UpdateStatus)
	doctorGroup.GET("/doctors/me/cases", h.MyCases, auth.RequireDoctor())

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.GET("/emergency-cases", h.ListCases)
	adminGroup.GET("/emergency-cases/export", h.ExportQueue)
}

// mapError translates service errors to HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrHomeCareNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateToken), errors.Is(err, triage.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrTokenExhausted):
		return echo.NewHTTPError(http.StatusInternalServerError, "could not allocate a tracking token, please retry")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

// -- Intake --

func (h *Handler) CreateCase(c echo.Context) error {
	var in CaseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		// Only staff may pre-assign.
		in.Token, in.DoctorID, in.HospitalID = "", nil, nil
	}
	ec, err := h.svc.CreateCase(ctx, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, ec)
}

func (h *Handler) TrackCase(c echo.Context) error {
	ec, err := h.svc.GetCaseByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *Handler) Queue(c echo.Context) error {
	var f QueueFilter
	if v := c.QueryParam("status"); v != "" {
		st, ok := triage.ParseStatus(v)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = st
	}
	if v := c.QueryParam("priority"); v != "" {
		p, ok := triage.ParsePriority(v)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid priority")
		}
		f.Priority = p
	}
	view, err := h.svc.OpenQueue(c.Request().Context(), f)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateHomeCare(c echo.Context) error {
	var in HomeCareInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := h.svc.CreateHomeCare(c.Request().Context(), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetHomeCare(c echo.Context) error {
	req, err := h.svc.GetHomeCare(c.Request().Context(), c.Param("token"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, req)
}

// -- Case handling --

func (h *Handler) GetCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ec, err := h.svc.GetCase(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *Handler) UpdateCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch Case
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ec, err := h.svc.UpdateCase(c.Request().Context(), id, &patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ec)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	var actor *uuid.UUID
	if doctorID, ok := auth.DoctorIDFromContext(ctx); ok {
		actor = &doctorID
	}
	ec, err := h.svc.UpdateStatus(ctx, id, req.Status, actor)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *Handler) MyCases(c echo.Context) error {
	ctx := c.Request().Context()
	doctorID, _ := auth.DoctorIDFromContext(ctx)
	dash, err := h.svc.DoctorCases(ctx, doctorID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, dash)
}

// -- Administration --

func (h *Handler) ListCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCases(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ExportQueue(c echo.Context) error {
	data, err := h.svc.ExportQueue(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	filename := "emergency-queue-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, XLSXMediaType, data)
}
