package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state shown on the profile page.
type OrderStatus string

const (
	StatusDelivered  OrderStatus = "delivered"
	StatusShipped    OrderStatus = "shipped"
	StatusProcessing OrderStatus = "processing"
)

// ParseOrderStatus accepts the lower-case status names used in catalog files.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusProcessing:
		return StatusProcessing, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Label returns the display label.
func (s OrderStatus) Label() string {
	switch s {
	case StatusDelivered:
		return "Delivered"
	case StatusShipped:
		return "Shipped"
	case StatusProcessing:
		return "Processing"
	}
	return string(s)
}

// Order is a historical order summary.
type Order struct {
	ID        string
	Date      time.Time
	Total     decimal.Decimal
	Status    OrderStatus
	ItemCount int
}
