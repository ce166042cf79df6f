package client

import (
	"github.com/ananyateklu/second-brain-sub004/internal/errors"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Re-export the domain sentinels so callers compare against a single symbol.
var (
	ErrNotFound   = model.ErrNotFound
	ErrValidation = model.ErrValidation
	ErrConflict   = model.ErrConflict
)

// IsRetryable reports whether err is worth retrying: network failures, 5xx,
// 408 and 429.
func IsRetryable(err error) bool {
	return err != nil && !errors.IsIrrecoverable(err) && !model.IsValidationError(err)
}
