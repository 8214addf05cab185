package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
	}
	return nil
}
