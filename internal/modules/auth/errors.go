package auth

import (
	"fmt"

	"rentmarket/internal/pkg/apperr"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	ErrUserExists         = fmt.Errorf("%w: email or username already registered", apperr.ErrConflict)
)
