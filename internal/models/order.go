package models

import "time"

// OrderSide represents the open/close direction of an option order.
type OrderSide string

const (
	BuyToOpen   OrderSide = "buy_to_open"
	SellToOpen  OrderSide = "sell_to_open"
	BuyToClose  OrderSide = "buy_to_close"
	SellToClose OrderSide = "sell_to_close"
)

// OrderType represents the order pricing type.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// Order represents a single-contract order for submission.
type Order struct {
	Code       string // contract code
	Quantity   int
	Side       OrderSide
	Type       OrderType
	LimitPrice float64
	PlacedAt   time.Time
}

// OrderResult represents the submitter's acknowledgement.
type OrderResult struct {
	ID     string
	Status string
}
