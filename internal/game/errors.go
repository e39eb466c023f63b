package game

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase. The session state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSessionOver is returned by Deal and PlaceBet once the bankroll has
	// fallen below the minimum bet. It is always wrapped together with
	// ErrInvalidTransition.
	ErrSessionOver = errors.New("session over")

	// ErrBetTooLow is returned by Deal, wrapped with ErrInvalidTransition,
	// when the bet or bankroll does not cover the minimum bet.
	ErrBetTooLow = errors.New("bet below table minimum")
)
