package http

import (
	"net/http"

	"apevault/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}
