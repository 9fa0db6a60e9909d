package application

import (
	"errors"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateName      = errors.New("list name already in use")
	ErrDuplicateSKU       = errors.New("sku already in list")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
)

// ErrInvalidAdjustment is re-exported so callers only import this package.
var ErrInvalidAdjustment = entity.ErrInvalidAdjustment
