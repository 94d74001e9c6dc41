package trading

import "errors"

var (
	// ErrEmptyBlacklistRule indicates a blacklist rule names neither a location nor a commodity.
	// Such a rule would match every offer.
	ErrEmptyBlacklistRule = errors.New("blacklist rule must name a location, a commodity or both")

	// ErrSameLocation indicates a route would buy and sell at the same trade port
	ErrSameLocation = errors.New("buy and sell offers are at the same location")

	// ErrCommodityMismatch indicates the buy and sell offers are for different commodities
	ErrCommodityMismatch = errors.New("buy and sell offers are for different commodities")

	// ErrNoProfit indicates the sell price does not exceed the buy price
	ErrNoProfit = errors.New("sell price does not exceed buy price")

	// ErrInvalidQuantity indicates the route quantity is not positive
	ErrInvalidQuantity = errors.New("route quantity must be positive")
)
