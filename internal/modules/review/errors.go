package review

import (
	"fmt"

	"rentmarket/internal/pkg/apperr"
)

var (
	ErrNotRenter    = fmt.Errorf("%w: only renters of this item can review it", apperr.ErrForbidden)
	ErrNotItemOwner = fmt.Errorf("%w: only the item owner can review its renters", apperr.ErrForbidden)
)
