package handlers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

func (a *App) HealthCheck(c echo.Context) error {
	if err := a.rdb.Ping(c.Request().Context()).Err(); err != nil {
		a.l.Error("health check redis ping", zap.Error(err))
		return a.er(c, http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
