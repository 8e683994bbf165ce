package ui

import (
	"strings"

	"petshop/internal/catalog"
	"petshop/internal/notify"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount in reais with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// Stars renders a 0-5 rating as filled and empty stars, rounding to the
// nearest whole star.
func Stars(rating float64) string {
	n := int(rating + 0.5)
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// StatusStyle colours an order status: delivered green, shipped blue,
// processing yellow.
func (s Styles) StatusStyle(status catalog.OrderStatus) lipgloss.Style {
	switch status {
	case catalog.StatusDelivered:
		return s.Success
	case catalog.StatusShipped:
		return s.Info
	case catalog.StatusProcessing:
		return s.Warning
	}
	return s.Body
}

// SeverityStyle picks the toast style for a notification.
func (s Styles) SeverityStyle(sev notify.Severity) lipgloss.Style {
	var c lipgloss.Color
	switch sev {
	case notify.SeveritySuccess:
		c = Success
	case notify.SeverityWarning:
		c = Warning
	case notify.SeverityError:
		c = Destructive
	default:
		c = Info
	}
	return s.Toast.BorderForeground(c).Foreground(c)
}
