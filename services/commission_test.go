package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionRate_Table(t *testing.T) {
	cases := []struct {
		plan string
		rate float64
	}{
		{"plan 1", 0.22},
		{"plan 2", 0.20},
		{"plan 3", 0.18},
		{"plan 4", 0.16},
		{"plan 5", 0.14},
		{"plan 6", 0.12},
		{"plan 7", 0.10},
	}
	for _, c := range cases {
		assert.Equal(t, c.rate, CommissionRate(c.plan), c.plan)
	}
}

func TestCommissionRate_Default(t *testing.T) {
	assert.Equal(t, 0.25, CommissionRate(""))
	assert.Equal(t, 0.25, CommissionRate("plan 8"))
	assert.Equal(t, 0.25, CommissionRate("premium"))
}

func TestDealerBalance(t *testing.T) {
	// plan 3 keeps 82% of the order price.
	assert.Equal(t, 82.0, DealerBalance(100, "plan 3"))
	// Unknown plan pays the default 25% commission.
	assert.Equal(t, 75.0, DealerBalance(100, "nope"))
	// Rounded to 2 decimal places: 99.99 * 0.78 = 77.9922.
	assert.Equal(t, 77.99, DealerBalance(99.99, "plan 1"))
	assert.Equal(t, 0.0, DealerBalance(0, "plan 1"))
}
