package finance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"agency-dashboard/internal/storage"
)

const day = 24 * time.Hour

// Punctuality derives the on-time flag and delay of a payment. Both are nil
// while paidDate is empty; delay is nil for on-time payments.
func Punctuality(expectedDate, paidDate string) (*bool, *int, error) {
	if strings.TrimSpace(paidDate) == "" {
		return nil, nil, nil
	}

	expected, err := ParseDate(expectedDate)
	if err != nil {
		return nil, nil, fmt.Errorf("expected_date: %w", err)
	}
	paid, err := ParseDate(paidDate)
	if err != nil {
		return nil, nil, fmt.Errorf("paid_date: %w", err)
	}

	onTime := !paid.After(expected)
	if onTime {
		return &onTime, nil, nil
	}

	delay := int(math.Ceil(float64(paid.Sub(expected)) / float64(day)))
	return &onTime, &delay, nil
}

// ApplyPunctuality recomputes the derived payment fields. It runs on create
// and on every update since either date may have changed.
func ApplyPunctuality(p storage.PaymentRecord) (storage.PaymentRecord, error) {
	onTime, delay, err := Punctuality(p.ExpectedDate, p.PaidDate)
	if err != nil {
		return p, err
	}
	p.IsOnTime = onTime
	p.DaysDelay = delay
	return p, nil
}
