package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"cart7-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRespondCheckoutError_Mapping(t *testing.T) {
	oc := &OrderController{Logger: zap.NewNop()}

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{&services.InsufficientStockError{ProductName: "Teak Chair"}, 400, "Insufficient stock for Teak Chair"},
		{services.ErrEmptyCart, 400, "Cart is empty"},
		{services.ErrNoDefaultAddress, 404, "Address not found."},
		{fmt.Errorf("cart line x: %w", services.ErrProductNotFound), 404, "Product not found"},
		{fmt.Errorf("%w: boom", services.ErrGatewayFailure), 500, "Razorpay order creation failed"},
		{errors.New("anything else"), 500, "Internal Server Error"},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		oc.respondCheckoutError(rec, c.err)
		assert.Equal(t, c.status, rec.Code, c.err.Error())
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, c.message, body["message"])
	}
}

func TestLast7Days(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	days := last7Days(now)

	require.Len(t, days, 7)
	assert.Equal(t, "2026-03-04", days[0].Format("2006-01-02"))
	assert.Equal(t, "2026-03-10", days[6].Format("2006-01-02"))
	for _, d := range days {
		assert.Equal(t, 0, d.Hour())
	}
}
