package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/kisannetra/internal/domain/dto"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
)

func (c *Controller) Recommend(ctx echo.Context) error {
	var req dto.RecommendRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	rec, err := c.recommend.Suggest(ctx.Request().Context(), req.Query())
	if errors.Is(err, constants.ErrNoOffers) {
		return noOffers(ctx)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rec)
}

func (c *Controller) Candidates(ctx echo.Context) error {
	var req dto.RecommendRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	candidates, err := c.recommend.Candidates(ctx.Request().Context(), req.Query())
	if errors.Is(err, constants.ErrNoOffers) {
		return noOffers(ctx)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.CandidatesResponse{Candidates: candidates})
}

func noOffers(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, map[string]string{"message": constants.NoOffersMessage})
}
