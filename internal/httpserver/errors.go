package httpserver

import (
	"strings"

	"github.com/Skotchmaster/storefront/internal/service"
)

// validationMessage strips the sentinel suffix from a wrapped
// service.ErrValidation, e.g. "price must be a number: validation".
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error())
}
