package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/kisannetra/internal/api/controller"
	"github.com/ougirez/kisannetra/internal/pkg/config"
	"github.com/ougirez/kisannetra/internal/service/diagnose"
	"github.com/ougirez/kisannetra/internal/service/prices"
	"github.com/ougirez/kisannetra/internal/service/recommend"
)

type APIService struct {
	router *echo.Echo
}

func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

type Services struct {
	Recommend  *recommend.Service
	Prices     *prices.Service
	Classifier *diagnose.Classifier
}

func NewAPIService(cfg *config.Config, version string, services Services) *APIService {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.HidePort = true
	svc.router.Logger.SetLevel(gommonLevel(cfg.LogLevel))
	svc.router.JSONSerializer = NewSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(requestIDMiddleware())
	svc.router.Use(requestLogMiddleware())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))

	cntrl := controller.NewController(controller.Deps{
		Recommend:  services.Recommend,
		Prices:     services.Prices,
		Classifier: services.Classifier,
		Version:    version,
		TopK:       cfg.ModelTopK,
	})

	api := svc.router.Group("/api")
	api.GET("/health", cntrl.Health)
	api.GET("/version", cntrl.Version)
	api.GET("/labels", cntrl.Labels)
	api.POST("/predict", cntrl.Predict)

	rec := api.Group("/recommend")
	rec.POST("", cntrl.Recommend)
	rec.POST("/candidates", cntrl.Candidates)

	priceRoutes := api.Group("/prices")
	priceRoutes.GET("", cntrl.ListPrices)
	priceRoutes.GET("/export", cntrl.ExportPrices)
	priceRoutes.POST("/import", cntrl.ImportPrices)
	priceRoutes.POST("", cntrl.CreatePrice)
	priceRoutes.GET("/:id", cntrl.GetPrice)
	priceRoutes.PUT("/:id", cntrl.UpdatePrice)
	priceRoutes.DELETE("/:id", cntrl.DeletePrice)

	return svc
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
