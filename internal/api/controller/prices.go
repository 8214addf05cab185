package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/kisannetra/internal/domain/dto"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/service/prices"
)

func (c *Controller) ListPrices(ctx echo.Context) error {
	offers, err := c.prices.ListOffers(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, offers)
}

func (c *Controller) GetPrice(ctx echo.Context) error {
	id, err := offerID(ctx)
	if err != nil {
		return err
	}

	offer, err := c.prices.GetOffer(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, offer)
}

func (c *Controller) CreatePrice(ctx echo.Context) error {
	req, err := bindOffer(ctx)
	if err != nil {
		return err
	}

	offer, err := c.prices.CreateOffer(ctx.Request().Context(), req.Offer())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, offer)
}

func (c *Controller) UpdatePrice(ctx echo.Context) error {
	id, err := offerID(ctx)
	if err != nil {
		return err
	}
	req, err := bindOffer(ctx)
	if err != nil {
		return err
	}

	offer, err := c.prices.UpdateOffer(ctx.Request().Context(), id, req.Offer())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, offer)
}

func (c *Controller) DeletePrice(ctx echo.Context) error {
	id, err := offerID(ctx)
	if err != nil {
		return err
	}

	if err := c.prices.DeleteOffer(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) ExportPrices(ctx echo.Context) error {
	body, err := c.prices.Export(ctx.Request().Context())
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="prices.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (c *Controller) ImportPrices(ctx echo.Context) error {
	mode, err := prices.ParseImportMode(ctx.QueryParam("mode"))
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: no file", constants.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}
	defer f.Close()

	n, err := c.prices.Import(ctx.Request().Context(), f, mode)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.ImportResponse{Imported: n})
}

func offerID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", constants.ErrInvalidInput, ctx.Param("id"))
	}
	return id, nil
}

func bindOffer(ctx echo.Context) (*dto.OfferRequest, error) {
	var req dto.OfferRequest
	if err := ctx.Bind(&req); err != nil {
		return nil, err
	}
	if err := ctx.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
