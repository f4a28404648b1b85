package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cart7-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore loads buyers and agents and clears carts after checkout.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ClearCart(ctx context.Context, id primitive.ObjectID) error
}

// ProductStore resolves cart lines and persists stock deductions.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// OrderStore persists orders and stamps the gateway order id for
// reconciliation.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	SetGatewayOrderID(ctx context.Context, orderIDs []primitive.ObjectID, gatewayOrderID string) error
}

// AddressStore returns the user's single default shipping address.
type AddressStore interface {
	FindDefault(ctx context.Context, userID primitive.ObjectID) (*models.Address, error)
}

// Transfer routes part of a gateway payment to a dealer's payout account.
type Transfer struct {
	Account     string
	AmountPaise int64
	Currency    string
	Notes       map[string]string
}

// GatewayOrderRequest is one payment order covering a whole checkout.
type GatewayOrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Transfers   []Transfer
}

// GatewayOrder is the gateway's created order.
type GatewayOrder struct {
	ID string
}

// Gateway creates payment orders. Implemented by the Razorpay client
// adapter; faked in tests.
type Gateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}

// CheckoutService converts a user's cart into one order per cart line,
// deducting stock and computing the dealer's commission-adjusted balance,
// then creates a single gateway order with per-agent transfers for non-COD
// payments.
type CheckoutService struct {
	Users     UserStore
	Products  ProductStore
	Orders    OrderStore
	Addresses AddressStore
	Gateway   Gateway

	// SkipMissingProducts silently drops cart lines whose product was
	// deleted instead of failing the checkout.
	SkipMissingProducts bool

	Now func() time.Time
}

// CheckoutResult is everything the handler needs to shape the response.
type CheckoutResult struct {
	Orders       []*models.Order
	TotalAmount  float64
	GatewayOrder *GatewayOrder
}

// Checkout runs the cart-to-order conversion. Stock is checked and deducted
// line by line; a failing line aborts the remainder but does not unwind
// orders already created or stock already deducted.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID, paymentMethod, currency string) (*CheckoutResult, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if currency == "" {
		currency = "INR"
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.Addresses.FindDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrNoDefaultAddress
	}

	groupID := primitive.NewObjectID()
	var (
		created     []*models.Order
		totalAmount float64
		transfers   []Transfer
	)

	for _, line := range user.Cart {
		product, err := s.Products.FindByID(ctx, line.Product)
		if err != nil {
			// Only a genuinely deleted product is skippable; store failures
			// fail the checkout.
			if !errors.Is(err, ErrProductNotFound) {
				return nil, err
			}
			if s.SkipMissingProducts {
				continue
			}
			return nil, fmt.Errorf("cart line %s: %w", line.Product.Hex(), ErrProductNotFound)
		}

		if product.Stock < line.Quantity {
			return nil, &InsufficientStockError{ProductName: product.Name}
		}

		orderPrice := product.UnitPrice() * float64(line.Quantity)
		totalAmount += orderPrice

		agent, plan, err := s.resolveAgent(ctx, product.Agent)
		if err != nil {
			return nil, err
		}
		balance := DealerBalance(orderPrice, plan)

		order := &models.Order{
			User:            userID,
			Agent:           product.Agent,
			OrderItems:      models.OrderItem{Product: product.ID, Quantity: line.Quantity},
			ShippingAddress: *address,
			PaymentMethod:   paymentMethod,
			TotalPrice:      orderPrice,
			BalanceTotal:    balance,
			DeliveryStatus:  models.StatusPending,
			PaymentStatus:   models.PaymentPending,
			CheckoutGroupID: groupID,
			CreatedAt:       now(),
			UpdatedAt:       now(),
		}
		orderID, err := s.Orders.Insert(ctx, order)
		if err != nil {
			return nil, err
		}
		order.ID = orderID

		if err := s.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
			return nil, err
		}

		// Agents without a registered payout account settle manually.
		if agent != nil && agent.RazorpayAccountID != "" {
			transfers = append(transfers, Transfer{
				Account:     agent.RazorpayAccountID,
				AmountPaise: toPaise(balance),
				Currency:    currency,
				Notes: map[string]string{
					"order_id":     orderID.Hex(),
					"product_name": product.Name,
				},
			})
		}

		created = append(created, order)
	}

	if len(created) == 0 {
		return nil, ErrEmptyCart
	}

	result := &CheckoutResult{Orders: created, TotalAmount: totalAmount}

	if paymentMethod != "COD" {
		gatewayOrder, err := s.Gateway.CreateOrder(ctx, GatewayOrderRequest{
			AmountPaise: toPaise(totalAmount),
			Currency:    currency,
			Receipt:     "receipt_" + created[0].ID.Hex(),
			Transfers:   transfers,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
		}

		ids := make([]primitive.ObjectID, len(created))
		for i, o := range created {
			ids[i] = o.ID
			o.RazorpayOrderID = gatewayOrder.ID
		}
		if err := s.Orders.SetGatewayOrderID(ctx, ids, gatewayOrder.ID); err != nil {
			return nil, err
		}
		result.GatewayOrder = gatewayOrder
	}

	if err := s.Users.ClearCart(ctx, userID); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveAgent looks up the product's owning dealer. A zero or deleted
// agent falls through to the default commission rate with no transfer;
// any other lookup error fails the checkout.
func (s *CheckoutService) resolveAgent(ctx context.Context, agentID primitive.ObjectID) (*models.User, string, error) {
	if agentID.IsZero() {
		return nil, "", nil
	}
	agent, err := s.Users.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return agent, agent.Plan, nil
}

// toPaise converts rupees to minor currency units.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
