package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}

	var coded *constants.CodedError
	if he == nil {
		for e := err; e != nil; e = errors.Unwrap(e) {
			if ce, ok := e.(*constants.CodedError); ok {
				coded, code = ce, ce.Code()
				break
			}
		}
	}

	// детали 5xx только в лог
	if code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "%s %s: %v", c.Request().Method, c.Path(), err)
		switch {
		case coded != nil:
			msg = coded.Error()
		case he == nil:
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
