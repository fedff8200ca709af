package server

import (
	"fmt"
	"strconv"
)

// Commission rates applied when summarizing payments. The admin payment
// summary and the creator-facing itinerary screen historically used
// different rates for the same concept; both are preserved here, named and
// in one place, until product reconciles them. Do not fold them together.
const (
	adminCommissionRate   = 0.10
	creatorCommissionRate = 0.15
)

// CommissionSummary breaks a gross amount into platform commission and the
// creator's net payout.
type CommissionSummary struct {
	Gross      string  `json:"gross"`
	Rate       float64 `json:"rate"`
	Commission string  `json:"commission"`
	Net        string  `json:"net"`
}

// summarizeCommission computes the split for a decimal-string amount. An
// unparseable amount yields a zero summary rather than an error: amounts
// come from the upstream and a display screen should not 500 on one bad
// row.
func summarizeCommission(gross string, rate float64) CommissionSummary {
	amount, err := strconv.ParseFloat(gross, 64)
	if err != nil {
		return CommissionSummary{Gross: gross, Rate: rate, Commission: "0.00", Net: "0.00"}
	}
	commission := amount * rate
	return CommissionSummary{
		Gross:      fmt.Sprintf("%.2f", amount),
		Rate:       rate,
		Commission: fmt.Sprintf("%.2f", commission),
		Net:        fmt.Sprintf("%.2f", amount-commission),
	}
}
