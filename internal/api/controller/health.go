package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"device": c.classifier.Device(),
	})
}

func (c *Controller) Version(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"version": c.version})
}

func (c *Controller) Labels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.classifier.Labels())
}
