package promo

import (
	"errors"
	"strings"
)

var ErrInvalidCode = errors.New("invalid promo code")

// MinPrice is the lowest price a discount can produce, in major units.
const MinPrice = 0.50

type Result struct {
	DiscountedPrice float64
	DiscountAmount  float64
	Message         string
}

// Apply normalizes a promo code (trimmed, uppercased) and computes the
// discounted price. The final price never drops below MinPrice.
func Apply(code string, price float64) (Result, error) {
	var discount float64
	var message string

	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "HALFPRICE":
		discount = price * 0.5
		message = "50% discount applied"
	case "QUARTEROFF":
		discount = price * 0.25
		message = "25% discount applied"
	case "FIFTYCENTS":
		discount = price - MinPrice
		message = "Price reduced to $0.50"
	default:
		return Result{}, ErrInvalidCode
	}

	discounted := price - discount
	if discounted < MinPrice {
		discounted = MinPrice
	}

	return Result{
		DiscountedPrice: discounted,
		DiscountAmount:  discount,
		Message:         message,
	}, nil
}
