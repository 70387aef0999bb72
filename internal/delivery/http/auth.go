package http

import (
	"net/http"

	"apevault/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAuth(base *echo.Group) {
	v1 := base.Group("/v1/auth")
	{
		v1.POST("/login", h.Login)
		v1.POST("/logout", h.Logout)
		v1.GET("/session", h.GetSession)
	}
}

// Login responds with one generic message for every failure mode; the causes
// are only distinguished in logs.
func (h *HttpAPIHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if !h.service.AuthService.Login(c.Request().Context(), req.Login, req.Password) {
		return c.JSON(http.StatusUnauthorized, dto.NewBaseResponse(http.StatusUnauthorized, "invalid login or password", nil))
	}

	session, _ := h.service.AuthService.CurrentSession()
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("logged in", session))
}

func (h *HttpAPIHandler) Logout(c echo.Context) error {
	h.service.AuthService.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("logged out", nil))
}

func (h *HttpAPIHandler) GetSession(c echo.Context) error {
	session, authenticated := h.service.AuthService.CurrentSession()
	if !authenticated {
		return c.JSON(http.StatusUnauthorized, dto.NewBaseResponse(http.StatusUnauthorized, "not authenticated", nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", session))
}
