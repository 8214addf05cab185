package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"go.uber.org/zap"
)

// requestIDMiddleware кладет request id в контекст запроса для логгера.
func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := logger.WithFields(c.Request().Context(), zap.String(constants.CtxKeyRequestID, id))
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

func requestLogMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infof(c.Request().Context(), "%s %s %d %s", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond))
			return nil
		},
	})
}
