package company

import (
	"fmt"

	"tycoon/internal/simerr"
)

var (
	ErrAlreadyPublic       = fmt.Errorf("%w: company is already public", simerr.ErrValidation)
	ErrSplitThreshold      = fmt.Errorf("%w: share price below split threshold", simerr.ErrValidation)
	ErrInvalidPercent      = fmt.Errorf("%w: percentage out of range", simerr.ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be > 0", simerr.ErrValidation)
	ErrInsufficientCapital = fmt.Errorf("%w: insufficient company capital", simerr.ErrValidation)
	ErrBorrowLimit         = fmt.Errorf("%w: borrowing capacity exceeded", simerr.ErrValidation)
	ErrNoDebt              = fmt.Errorf("%w: no outstanding debt", simerr.ErrValidation)
	ErrPlayerRow           = fmt.Errorf("%w: the player's own row has no relationship", simerr.ErrValidation)
	ErrInvalidTier         = fmt.Errorf("%w: unknown salary tier", simerr.ErrValidation)
	ErrInvalidTech         = fmt.Errorf("%w: unknown tech track", simerr.ErrValidation)
	ErrHeadcount           = fmt.Errorf("%w: headcount cannot go negative", simerr.ErrValidation)
	ErrUnknownShareholder  = fmt.Errorf("%w: unknown shareholder", simerr.ErrLookup)
)
