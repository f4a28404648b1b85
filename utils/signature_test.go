package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature_Valid(t *testing.T) {
	secret := "test-secret"
	sig := SignPayment("order_123", "pay_456", secret)

	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
}

func TestVerifyPaymentSignature_Tampered(t *testing.T) {
	secret := "test-secret"
	sig := SignPayment("order_123", "pay_456", secret)

	assert.False(t, VerifyPaymentSignature("order_123", "pay_999", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_999", "pay_456", sig, secret))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig, "other-secret"))
	assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "", secret))
}

func TestVerifyPaymentSignature_Repeatable(t *testing.T) {
	secret := "test-secret"
	sig := SignPayment("order_123", "pay_456", secret)

	// Verifying the same triple twice succeeds both times.
	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
}
