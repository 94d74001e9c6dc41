package services

import "errors"

var (
	// ErrSameStartAndEnd indicates start and end resolve to the same single trade port
	ErrSameStartAndEnd = errors.New("start and end position are the same")

	// ErrIncompatibleStart indicates no start trade port supports the ship
	ErrIncompatibleStart = errors.New("no start position compatible with the ship")

	// ErrNoTradePorts indicates a location contains no trade port
	ErrNoTradePorts = errors.New("location contains no trade port")

	// ErrInvalidStart and ErrInvalidEnd tell which route position was unusable
	ErrInvalidStart = errors.New("invalid start position")
	ErrInvalidEnd   = errors.New("invalid end position")
)
