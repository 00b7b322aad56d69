package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransaction is returned when a transaction fails validation
	// before it touches the ledger.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrOversoldPosition is returned when a replay encounters a SELL larger
	// than the position held at that point. The mutation that triggered the
	// replay is rolled back.
	ErrOversoldPosition = errors.New("oversold position")
)
