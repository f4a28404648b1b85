package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"cart7-backend/services"
	"cart7-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PaymentController confirms gateway payments against their signature
type PaymentController struct {
	Orders services.PaymentStore
	Logger *zap.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(db *mongo.Database, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		Orders: services.NewPaymentStore(db),
		Logger: logger,
	}
}

// VerifyPayment checks the gateway's payment signature and, on a match,
// marks every order of that gateway order as paid. Resubmitting the same
// valid confirmation just re-applies the set.
func (pc *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		writeError(w, http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}

	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if !utils.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret) {
		pc.Logger.Warn("payment signature mismatch", zap.String("razorpayOrderId", req.RazorpayOrderID))
		writeError(w, http.StatusBadRequest, "Invalid payment signature")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matched, err := pc.Orders.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update payment status")
		return
	}
	if matched == 0 {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	pc.Logger.Info("payment verified",
		zap.String("razorpayOrderId", req.RazorpayOrderID),
		zap.Int64("ordersUpdated", matched))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment verified successfully",
	})
}
