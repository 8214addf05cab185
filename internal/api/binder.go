package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
)

type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

// Bind treats a body without Content-Type as JSON and reports every bind failure as invalid input.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength != 0 && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusUnsupportedMediaType {
				return err
			}
			if he.Internal != nil && errors.Is(he.Internal, constants.ErrInvalidInput) {
				return he.Internal
			}
		} else if errors.Is(err, constants.ErrInvalidInput) {
			return err
		}
		// keep a single prefix when the decoder hides the cause
		msg := strings.Replace(bindMessage(err), constants.ErrInvalidInput.Error()+": ", "", 1)
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, msg)
	}
	return nil
}

func bindMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Internal != nil {
			return he.Internal.Error()
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
