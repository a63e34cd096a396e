// Package service holds the business rules of the marketplace. Services take
// the caller's identity explicitly and report failures as apperr kinds; they
// never write HTTP responses.
package service

import (
	"errors"

	"hoyspace-api/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// wrapInternal passes classified errors through and marks everything else as
// internal.
func wrapInternal(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(msg, err)
}
