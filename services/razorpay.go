package services

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway adapts the Razorpay client to the Gateway interface.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway builds a gateway from API credentials.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder creates one Razorpay order for the whole checkout, with Route
// transfer instructions for each dealer carrying a payout account.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}

	if len(req.Transfers) > 0 {
		transfers := make([]map[string]interface{}, 0, len(req.Transfers))
		for _, t := range req.Transfers {
			transfers = append(transfers, map[string]interface{}{
				"account":  t.Account,
				"amount":   t.AmountPaise,
				"currency": t.Currency,
				"notes":    t.Notes,
			})
		}
		data["transfers"] = transfers
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, err
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}
	return &GatewayOrder{ID: id}, nil
}
