package api

import (
	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// Serializer is echo.JSONSerializer on top of sonic.
type Serializer struct {
	api sonic.API
}

func NewSerializer() *Serializer {
	return &Serializer{api: sonic.ConfigStd}
}

func (s *Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.api.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *Serializer) Deserialize(c echo.Context, i interface{}) error {
	return s.api.NewDecoder(c.Request().Body).Decode(i)
}
