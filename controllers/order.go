package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cart7-backend/middleware"
	"cart7-backend/models"
	"cart7-backend/services"
	"cart7-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// OrderController handles order placement, lifecycle and analytics
type OrderController struct {
	Orders   *mongo.Collection
	Users    *mongo.Collection
	Checkout *services.CheckoutService
	Email    *utils.EmailService
	Logger   *zap.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(db *mongo.Database, checkout *services.CheckoutService, email *utils.EmailService, logger *zap.Logger) *OrderController {
	return &OrderController{
		Orders:   db.Collection("orders"),
		Users:    db.Collection("users"),
		Checkout: checkout,
		Email:    email,
		Logger:   logger,
	}
}

func (oc *OrderController) callerID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateOrder converts the caller's cart into orders, one per cart line
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := oc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		PaymentMethod string `json:"paymentMethod"`
		Currency      string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "paymentMethod is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := oc.Checkout.Checkout(ctx, userID, req.PaymentMethod, req.Currency)
	if err != nil {
		oc.respondCheckoutError(w, err)
		return
	}

	if oc.Email != nil {
		go oc.sendConfirmation(userID, result, req.PaymentMethod)
	}

	var gatewayOrder interface{}
	if result.GatewayOrder != nil {
		gatewayOrder = result.GatewayOrder
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":       true,
		"paymentMethod": req.PaymentMethod,
		"message":       "Orders created successfully from cart",
		"orders":        result.Orders,
		"totalAmount":   result.TotalAmount,
		"razorpayOrder": gatewayOrder,
	})
}

func (oc *OrderController) respondCheckoutError(w http.ResponseWriter, err error) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, services.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, services.ErrNoDefaultAddress):
		writeError(w, http.StatusNotFound, "Address not found.")
	case errors.Is(err, services.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrGatewayFailure):
		writeError(w, http.StatusInternalServerError, "Razorpay order creation failed")
	default:
		oc.Logger.Error("checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (oc *OrderController) sendConfirmation(userID primitive.ObjectID, result *services.CheckoutResult, paymentMethod string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := oc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return
	}
	if err := oc.Email.SendOrderConfirmationEmail(user.Email, user.Name, len(result.Orders), result.TotalAmount, paymentMethod); err != nil {
		oc.Logger.Warn("order confirmation email failed", zap.String("email", user.Email), zap.Error(err))
	}
}

// GetOrders retrieves all orders with buyer and product details joined
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "userDetails",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$userDetails", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "orderItems.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$productDetails", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"userDetails.password":              0,
			"userDetails.razorpay_bank_details": 0,
		}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
	}

	cursor, err := oc.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving the orders.")
		return
	}
	defer cursor.Close(ctx)

	var orders []bson.M
	if err := cursor.All(ctx, &orders); err != nil {
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving the orders.")
		return
	}
	if len(orders) == 0 {
		writeError(w, http.StatusBadRequest, "No orders found. Please place an order first.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully.",
		"orders":  orders,
	})
}

// GetOrdersByUser retrieves the caller's orders
func (oc *OrderController) GetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := oc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := oc.Orders.Find(ctx, bson.M{"user": userID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving the orders.")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving the orders.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully.",
		"orders":  orders,
	})
}

// CheckCart verifies every cart line against current stock, returning the
// lines that cannot be fulfilled.
func (oc *OrderController) CheckCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := oc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$unwind", Value: "$cart"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "cart.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		{{Key: "$unwind", Value: "$productDetails"}},
		{{Key: "$project", Value: bson.M{
			"_id":               0,
			"productId":         "$productDetails._id",
			"name":              "$productDetails.name",
			"availableStock":    "$productDetails.stock",
			"requestedQuantity": "$cart.quantity",
		}}},
		{{Key: "$match", Value: bson.M{
			"$expr": bson.M{"$lt": bson.A{"$availableStock", "$requestedQuantity"}},
		}}},
	}

	cursor, err := oc.Users.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	var unavailable []bson.M
	if err := cursor.All(ctx, &unavailable); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if len(unavailable) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success":             false,
			"message":             "Some products are out of stock",
			"unavailableProducts": unavailable,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All products are available",
	})
}

// UpdateDeliveryStatus advances an order's delivery status. Returns are
// only accepted within the 7-day window after delivery.
func (oc *OrderController) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["orderId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		DeliveryStatus string `json:"deliveryStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeliveryStatus == "" {
		writeError(w, http.StatusBadRequest, "Delivery status is required")
		return
	}
	if !models.IsValidDeliveryStatus(req.DeliveryStatus) {
		writeError(w, http.StatusBadRequest, "Invalid delivery status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	if req.DeliveryStatus == models.StatusReturned {
		if order.DeliveredAt == nil {
			writeError(w, http.StatusBadRequest, "Order has not been delivered yet")
			return
		}
		if !order.CanReturn(time.Now()) {
			writeError(w, http.StatusBadRequest, "Return period has expired (7 days limit)")
			return
		}
	}

	update := bson.M{"deliveryStatus": req.DeliveryStatus, "updatedAt": time.Now()}
	if req.DeliveryStatus == models.StatusDelivered {
		update["deliveredAt"] = time.Now()
	}

	if _, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": update}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update delivery status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Delivery status updated successfully",
	})
}

// ShippingWebhook is pushed by the shipping provider with delivery updates.
// Fields are overwritten as received.
func (oc *OrderController) ShippingWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID     string `json:"order_id"`
		Status      string `json:"status"`
		AWBCode     string `json:"awb_code"`
		CourierName string `json:"courier_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"deliveryStatus": req.Status,
		"awb_code":       req.AWBCode,
		"courier_name":   req.CourierName,
		"updatedAt":      time.Now(),
	}
	if req.Status == models.StatusDelivered {
		update["deliveredAt"] = time.Now()
	}

	result, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": update})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	oc.Logger.Info("shipping webhook processed",
		zap.String("orderId", req.OrderID),
		zap.String("status", req.Status))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Webhook processed successfully",
	})
}

// WeeklyOrders returns per-day order counts for the last 7 days, zero
// filled, shaped for the dashboard graph.
func (oc *OrderController) WeeklyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	days := last7Days(time.Now())
	since := days[0]

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := oc.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	var grouped []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &grouped); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	counts := map[string]int{}
	for _, g := range grouped {
		counts[g.ID] = g.Count
	}

	labels := make([]string, len(days))
	data := make([]int, len(days))
	for i, d := range days {
		labels[i] = d.Format("2006-01-02")
		data[i] = counts[labels[i]]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"data":   data,
	})
}

// SalesByCategory sums quantities sold per product category, highest first.
func (oc *OrderController) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "orderItems.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		{{Key: "$unwind", Value: "$productDetails"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "productDetails.category",
			"foreignField": "_id",
			"as":           "categoryDetails",
		}}},
		{{Key: "$unwind", Value: "$categoryDetails"}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$categoryDetails.name",
			"totalSales": bson.M{"$sum": "$orderItems.quantity"},
		}}},
		{{Key: "$sort", Value: bson.M{"totalSales": -1}}},
	}

	cursor, err := oc.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	var grouped []struct {
		ID         string `bson:"_id"`
		TotalSales int    `bson:"totalSales"`
	}
	if err := cursor.All(ctx, &grouped); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	labels := make([]string, len(grouped))
	data := make([]int, len(grouped))
	for i, g := range grouped {
		labels[i] = g.ID
		data[i] = g.TotalSales
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"data":   data,
	})
}

// last7Days returns midnight UTC for each of the last 7 days, oldest first.
func last7Days(now time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := 0; i < 7; i++ {
		d := now.AddDate(0, 0, i-6)
		days[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return days
}
