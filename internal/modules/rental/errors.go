package rental

import (
	"fmt"

	"rentmarket/internal/pkg/apperr"
)

var (
	ErrItemUnavailable = fmt.Errorf("%w: item is not available for rent", apperr.ErrConflict)
	ErrOwnItem         = fmt.Errorf("%w: owners cannot rent their own items", apperr.ErrForbidden)
	ErrNotParticipant  = fmt.Errorf("%w: rental belongs to another user", apperr.ErrForbidden)
)
