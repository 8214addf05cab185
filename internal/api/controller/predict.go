package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/kisannetra/internal/domain/dto"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/service/diagnose"
)

func (c *Controller) Predict(ctx echo.Context) error {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "no image"})
	}

	topK := c.topK
	if raw := ctx.QueryParam("topk"); raw != "" {
		topK, err = strconv.Atoi(raw)
		if err != nil || topK <= 0 {
			return fmt.Errorf("%w: bad topk %q", constants.ErrInvalidInput, raw)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}
	defer f.Close()

	img, err := diagnose.Decode(f)
	if err != nil {
		return err
	}

	preds, err := c.classifier.Predict(ctx.Request().Context(), img, topK)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.PredictResponse{Predictions: preds})
}
