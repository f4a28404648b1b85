package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoDefaultAddress = errors.New("no default address found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrGatewayFailure   = errors.New("payment gateway order creation failed")
)

// InsufficientStockError names the product that could not be fulfilled.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.ProductName)
}
