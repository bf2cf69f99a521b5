package item

import (
	"fmt"

	"rentmarket/internal/pkg/apperr"
)

var (
	ErrNotOwner  = fmt.Errorf("%w: you don't own this item", apperr.ErrForbidden)
	ErrSlugTaken = fmt.Errorf("%w: an item with this slug was created concurrently, retry", apperr.ErrConflict)
)
