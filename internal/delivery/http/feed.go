package http

import (
	"net/http"

	"apevault/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupFeed(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/calls", h.GetCalls)
	}
}

// GetCalls serves the signal feed. A backend failure maps to 502 so clients
// can tell "feed unavailable" apart from a genuinely empty feed.
func (h *HttpAPIHandler) GetCalls(c echo.Context) error {
	var req dto.GetCallsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	calls, err := h.service.FeedService.FetchCalls(c.Request().Context(), req.ToCriteria())
	if err != nil {
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, "feed temporarily unavailable", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", calls))
}
