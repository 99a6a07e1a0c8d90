package market

import "errors"

var (
	// ErrInvalidTicker is returned when a ticker is empty or not an uppercase code
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrInvalidQuantity is returned when a quantity is negative or not a finite number
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownTicker is returned when a ticker is not tracked by the price table
	ErrUnknownTicker = errors.New("unknown ticker")
)
