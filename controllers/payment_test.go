package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cart7-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentStore struct {
	orders     map[string]int64 // gateway order id -> matched order count
	paymentIDs []string
}

func (f *fakePaymentStore) MarkPaid(_ context.Context, gatewayOrderID, paymentID string) (int64, error) {
	f.paymentIDs = append(f.paymentIDs, paymentID)
	return f.orders[gatewayOrderID], nil
}

func postVerify(t *testing.T, pc *PaymentController, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/order/payment/verify-payment", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	pc.VerifyPayment(rec, req)
	return rec
}

func TestVerifyPayment_ResubmitSucceedsAgain(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")
	store := &fakePaymentStore{orders: map[string]int64{"order_rzp_1": 2}}
	pc := &PaymentController{Orders: store, Logger: zap.NewNop()}

	body := map[string]string{
		"razorpay_order_id":   "order_rzp_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  utils.SignPayment("order_rzp_1", "pay_1", "test_secret"),
	}

	first := postVerify(t, pc, body)
	second := postVerify(t, pc, body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	// Both submissions apply the same set, so replaying a confirmation
	// cannot change what is stored.
	assert.Equal(t, []string{"pay_1", "pay_1"}, store.paymentIDs)
}

func TestVerifyPayment_RejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")
	store := &fakePaymentStore{orders: map[string]int64{"order_rzp_1": 2}}
	pc := &PaymentController{Orders: store, Logger: zap.NewNop()}

	rec := postVerify(t, pc, map[string]string{
		"razorpay_order_id":   "order_rzp_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.paymentIDs)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")
	store := &fakePaymentStore{orders: map[string]int64{}}
	pc := &PaymentController{Orders: store, Logger: zap.NewNop()}

	rec := postVerify(t, pc, map[string]string{
		"razorpay_order_id":   "order_rzp_unknown",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  utils.SignPayment("order_rzp_unknown", "pay_1", "test_secret"),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
