package validator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// IsValidAddress reports whether address is a well formed, lowercased
// wallet address. Keys are built from lowercased addresses, so mixed case
// input is rejected instead of silently normalized here.
func IsValidAddress(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	return strings.ToLower(address) == address
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
