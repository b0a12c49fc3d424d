package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/editionmarket/base/ctx"
	hcdomain "github.com/x-xyz/editionmarket/domain/healthcheck"
)

// ResponseError represent the reseponse error struct
type ResponseError struct {
	Message string `json:"message"`
}

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

// check
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200
//	@Failure		500
//	@Router			/health [get]
func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	status, err := h.healthCheck.Check(context)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, status)
}
