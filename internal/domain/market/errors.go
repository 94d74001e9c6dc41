package market

import "errors"

var (
	// ErrCacheMiss is returned by a snapshot store when no usable snapshot is persisted
	ErrCacheMiss = errors.New("snapshot cache miss")

	// ErrSnapshotVersion is returned when a persisted snapshot was written by an incompatible format version
	ErrSnapshotVersion = errors.New("snapshot format version mismatch")

	// ErrInvalidOfferKind is returned when an offer direction is neither buy nor sell
	ErrInvalidOfferKind = errors.New("invalid offer kind")

	// ErrInvalidLocationKind is returned for unknown location levels
	ErrInvalidLocationKind = errors.New("invalid location kind")
)
