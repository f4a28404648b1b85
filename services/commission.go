package services

import "math"

// Commission percentage retained by the platform, keyed by the dealer's
// subscription plan. An absent or unknown plan pays the default rate, the
// highest commission.
var planRates = map[string]float64{
	"plan 1": 0.22,
	"plan 2": 0.20,
	"plan 3": 0.18,
	"plan 4": 0.16,
	"plan 5": 0.14,
	"plan 6": 0.12,
	"plan 7": 0.10,
}

// DefaultCommissionRate applies when the dealer has no recognised plan.
const DefaultCommissionRate = 0.25

// CommissionRate returns the platform's cut for the given plan.
func CommissionRate(plan string) float64 {
	if rate, ok := planRates[plan]; ok {
		return rate
	}
	return DefaultCommissionRate
}

// DealerBalance is the amount payable to the dealer after commission,
// rounded to 2 decimal places.
func DealerBalance(orderPrice float64, plan string) float64 {
	balance := orderPrice * (1 - CommissionRate(plan))
	return math.Round(balance*100) / 100
}
