package http

import (
	"net/http"

	"apevault/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTheme(base *echo.Group) {
	v1 := base.Group("/v1/theme")
	{
		v1.GET("", h.GetTheme)
		v1.PUT("", h.SetTheme)
		v1.POST("/toggle", h.ToggleTheme)
	}
}

func (h *HttpAPIHandler) GetTheme(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", dto.ThemeState{Theme: h.service.ThemeService.Theme()}))
}

func (h *HttpAPIHandler) SetTheme(c echo.Context) error {
	var req dto.SetThemeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	h.service.ThemeService.SetTheme(c.Request().Context(), dto.Theme(req.Theme))
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", dto.ThemeState{Theme: h.service.ThemeService.Theme()}))
}

func (h *HttpAPIHandler) ToggleTheme(c echo.Context) error {
	next := h.service.ThemeService.ToggleTheme(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", dto.ThemeState{Theme: next}))
}
