package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a use case wraps exactly one of them.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("conflict")
	ErrUpstream          = errors.New("upstream unavailable")
	ErrInternal          = errors.New("internal error")
)

var (
	ErrWalletNotFound   = Errorf(ErrNotFound, "wallet not found")
	ErrPoolNotFound     = Errorf(ErrNotFound, "liquidity pool not found")
	ErrBankLinkNotFound = Errorf(ErrNotFound, "bank account not found")
	ErrNoTransactions   = Errorf(ErrNotFound, "no transactions found")
	ErrWalletExists     = Errorf(ErrConflict, "wallet already exists")
	ErrPoolExists       = Errorf(ErrConflict, "liquidity pool already exists")
	ErrBankLinkExists   = Errorf(ErrConflict, "bank account already linked")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a storage failure so that it classifies as ErrInternal
// while keeping the cause for logs.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// Kind reports which error kind err belongs to; unknown errors are internal.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrInsufficientFunds, ErrConflict, ErrUpstream, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
