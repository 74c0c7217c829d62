package facility

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, _ *echo.Group) {
	api.GET("/hospitals", h.ListHospitals)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.POST("/hospitals", h.CreateHospital)
	adminGroup.PUT("/hospitals/:id", h.UpdateHospital)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	items, err := h.svc.ListActive(c.Request().Context())
	if err != nil {
		return mapHospitalError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"hospitals": items,
		"total":     len(items),
	})
}

func (h *Handler) CreateHospital(c echo.Context) error {
	hosp := Hospital{IsActive: true}
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		return mapHospitalError(err)
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) UpdateHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var u Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp, err := h.svc.UpdateHospital(c.Request().Context(), id, u)
	if err != nil {
		return mapHospitalError(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func mapHospitalError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
