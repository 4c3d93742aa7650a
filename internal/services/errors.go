package services

import (
	"strings"

	goa "goa.design/goa/v3/pkg"

	apperrors "nexus/pkg/errors"
)

// requireFields collects a goa missing-field error for every empty value.
// fields alternates name, value.
func requireFields(fields ...string) error {
	var err error
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			err = goa.MergeErrors(err, goa.MissingFieldError(fields[i], "body"))
		}
	}
	return err
}

// validationError turns a goa validation error into a 400-mapped AppError.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrCodeValidation, err.Error(), err)
}
