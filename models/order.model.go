package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery statuses an order can be in.
const (
	StatusPending        = "Pending"
	StatusProcessing     = "Processing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
	StatusReturned       = "Returned"
	StatusFailedDelivery = "Failed Delivery"
)

// PaymentPaid is set once the gateway signature has been verified.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// ReturnWindowDays is how long after delivery a return is accepted.
const ReturnWindowDays = 7

var validDeliveryStatuses = map[string]bool{
	StatusPending:        true,
	StatusProcessing:     true,
	StatusShipped:        true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
	StatusReturned:       true,
	StatusFailedDelivery: true,
}

// IsValidDeliveryStatus reports whether s is one of the fixed status values.
func IsValidDeliveryStatus(s string) bool {
	return validDeliveryStatuses[s]
}

// OrderItem is the single product line an order carries.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order is one purchase of a single product line. A checkout with N cart
// lines creates N orders sharing a checkoutGroupId, so fulfillment and
// commission are tracked per seller.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Agent             primitive.ObjectID `bson:"agent,omitempty" json:"agent,omitempty"`
	OrderItems        OrderItem          `bson:"orderItems" json:"orderItems"`
	ShippingAddress   Address            `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalPrice        float64            `bson:"totalPrice" json:"totalPrice"`
	BalanceTotal      float64            `bson:"balanceTotal" json:"balanceTotal"`
	DeliveryStatus    string             `bson:"deliveryStatus" json:"deliveryStatus"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	CheckoutGroupID   primitive.ObjectID `bson:"checkoutGroupId,omitempty" json:"checkoutGroupId,omitempty"`
	RazorpayOrderID   string             `bson:"razorpay_order_id,omitempty" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string             `bson:"razorpay_payment_id,omitempty" json:"razorpay_payment_id,omitempty"`
	AWBCode           string             `bson:"awb_code,omitempty" json:"awb_code,omitempty"`
	CourierName       string             `bson:"courier_name,omitempty" json:"courier_name,omitempty"`
	DeliveredAt       *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CanReturn reports whether the order may transition to Returned at the
// given time. The order must have been delivered, and no more than
// ReturnWindowDays whole days may have elapsed since delivery.
func (o *Order) CanReturn(now time.Time) bool {
	if o.DeliveredAt == nil {
		return false
	}
	days := int(now.Sub(*o.DeliveredAt).Hours() / 24)
	return days <= ReturnWindowDays
}
