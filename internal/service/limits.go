package service

import (
	"errors"

	"skatebook/internal/constants"
	"skatebook/internal/domain"
)

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > constants.MaxListLimit {
		return constants.MaxListLimit
	}
	return limit
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
