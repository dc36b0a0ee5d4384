package library

import "errors"

// Sentinel errors returned by the library package. Callers are expected to
// test with errors.Is; the wrapped message carries the offending id or value.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyReturned   = errors.New("already returned")
	ErrEmptyInvoice      = errors.New("empty invoice")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
