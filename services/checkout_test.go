package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cart7-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hand-written mocks for the checkout store interfaces.

type mockUserStore struct {
	users        map[primitive.ObjectID]*models.User
	errs         map[primitive.ObjectID]error
	cartsCleared int
}

func (m *mockUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if err, ok := m.errs[id]; ok {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserStore) ClearCart(_ context.Context, id primitive.ObjectID) error {
	m.cartsCleared++
	return nil
}

type mockProductStore struct {
	products   map[primitive.ObjectID]*models.Product
	errs       map[primitive.ObjectID]error
	decrements map[primitive.ObjectID]int
}

func (m *mockProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if err, ok := m.errs[id]; ok {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductStore) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	if m.decrements == nil {
		m.decrements = map[primitive.ObjectID]int{}
	}
	m.decrements[id] += quantity
	m.products[id].Stock -= quantity
	return nil
}

type mockOrderStore struct {
	inserted []*models.Order
	stamped  string
}

func (m *mockOrderStore) Insert(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *order
	copied.ID = id
	m.inserted = append(m.inserted, &copied)
	return id, nil
}

func (m *mockOrderStore) SetGatewayOrderID(_ context.Context, orderIDs []primitive.ObjectID, gatewayOrderID string) error {
	m.stamped = gatewayOrderID
	return nil
}

type mockAddressStore struct {
	address *models.Address
}

func (m *mockAddressStore) FindDefault(_ context.Context, userID primitive.ObjectID) (*models.Address, error) {
	if m.address == nil {
		return nil, ErrNoDefaultAddress
	}
	return m.address, nil
}

type mockGateway struct {
	lastReq *GatewayOrderRequest
	calls   int
	err     error
}

func (m *mockGateway) CreateOrder(_ context.Context, req GatewayOrderRequest) (*GatewayOrder, error) {
	m.calls++
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return &GatewayOrder{ID: "order_rzp_test"}, nil
}

type fixture struct {
	svc      *CheckoutService
	users    *mockUserStore
	products *mockProductStore
	orders   *mockOrderStore
	gateway  *mockGateway

	buyerID primitive.ObjectID
}

func newFixture() *fixture {
	buyerID := primitive.NewObjectID()
	users := &mockUserStore{users: map[primitive.ObjectID]*models.User{
		buyerID: {ID: buyerID, Name: "Buyer", Role: models.RoleUser},
	}}
	products := &mockProductStore{products: map[primitive.ObjectID]*models.Product{}}
	orders := &mockOrderStore{}
	gateway := &mockGateway{}
	addresses := &mockAddressStore{address: &models.Address{
		ID:        primitive.NewObjectID(),
		User:      buyerID,
		City:      "Kochi",
		IsDefault: true,
	}}
	svc := &CheckoutService{
		Users:     users,
		Products:  products,
		Orders:    orders,
		Addresses: addresses,
		Gateway:   gateway,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return &fixture{svc: svc, users: users, products: products, orders: orders, gateway: gateway, buyerID: buyerID}
}

func (f *fixture) addDealer(plan, account string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users.users[id] = &models.User{
		ID:                id,
		Role:              models.RoleAdmin,
		IsDealer:          true,
		Plan:              plan,
		RazorpayAccountID: account,
	}
	return id
}

func (f *fixture) addProduct(name string, stock int, salePrice float64, agent primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products.products[id] = &models.Product{
		ID:        id,
		Name:      name,
		Stock:     stock,
		SalePrice: salePrice,
		Agent:     agent,
	}
	return id
}

func (f *fixture) setCart(items ...models.CartItem) {
	f.users.users[f.buyerID].Cart = items
}

func TestCheckout_CreatesOneOrderPerCartLine(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_dealer1")
	p1 := f.addProduct("Teak Chair", 10, 50, dealer)
	p2 := f.addProduct("Teak Table", 5, 200, dealer)
	f.setCart(
		models.CartItem{Product: p1, Quantity: 2},
		models.CartItem{Product: p2, Quantity: 1},
	)

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)

	assert.Equal(t, 300.0, result.TotalAmount)
	sum := 0.0
	for _, o := range result.Orders {
		sum += o.TotalPrice
		assert.Equal(t, models.StatusPending, o.DeliveryStatus)
		assert.Equal(t, models.PaymentPending, o.PaymentStatus)
		assert.Equal(t, "order_rzp_test", o.RazorpayOrderID)
	}
	assert.Equal(t, result.TotalAmount, sum)

	// All lines of one checkout share a group id.
	assert.Equal(t, result.Orders[0].CheckoutGroupID, result.Orders[1].CheckoutGroupID)
	assert.False(t, result.Orders[0].CheckoutGroupID.IsZero())

	// The gateway got the aggregate amount in paise and the receipt carries
	// the first order id.
	require.NotNil(t, f.gateway.lastReq)
	assert.Equal(t, int64(30000), f.gateway.lastReq.AmountPaise)
	assert.Equal(t, "receipt_"+result.Orders[0].ID.Hex(), f.gateway.lastReq.Receipt)
	assert.Equal(t, "order_rzp_test", f.orders.stamped)

	// Stock deducted per line, cart cleared.
	assert.Equal(t, 8, f.products.products[p1].Stock)
	assert.Equal(t, 4, f.products.products[p2].Stock)
	assert.Equal(t, 1, f.users.cartsCleared)
}

func TestCheckout_CommissionAndTransfers(t *testing.T) {
	f := newFixture()
	dealerWithAccount := f.addDealer("plan 7", "acc_routed")
	dealerNoAccount := f.addDealer("plan 1", "")
	p1 := f.addProduct("Routed Item", 10, 100, dealerWithAccount)
	p2 := f.addProduct("Manual Item", 10, 100, dealerNoAccount)
	f.setCart(
		models.CartItem{Product: p1, Quantity: 1},
		models.CartItem{Product: p2, Quantity: 1},
	)

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.NoError(t, err)

	// plan 7 → 10% commission, plan 1 → 22%.
	assert.Equal(t, 90.0, result.Orders[0].BalanceTotal)
	assert.Equal(t, 78.0, result.Orders[1].BalanceTotal)

	// Only the dealer with a payout account gets a transfer entry.
	require.Len(t, f.gateway.lastReq.Transfers, 1)
	transfer := f.gateway.lastReq.Transfers[0]
	assert.Equal(t, "acc_routed", transfer.Account)
	assert.Equal(t, int64(9000), transfer.AmountPaise)
	assert.Equal(t, result.Orders[0].ID.Hex(), transfer.Notes["order_id"])
	assert.Equal(t, "Routed Item", transfer.Notes["product_name"])
}

func TestCheckout_UnknownPlanPaysDefaultCommission(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("gold", "acc_x")
	p := f.addProduct("Widget", 3, 40, dealer)
	f.setCart(models.CartItem{Product: p, Quantity: 1})

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.NoError(t, err)
	assert.Equal(t, 30.0, result.Orders[0].BalanceTotal)
}

func TestCheckout_InsufficientStockAbortsRemainder(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 2", "acc_d")
	p1 := f.addProduct("In Stock", 10, 50, dealer)
	p2 := f.addProduct("Scarce", 1, 50, dealer)
	p3 := f.addProduct("Never Reached", 10, 50, dealer)
	f.setCart(
		models.CartItem{Product: p1, Quantity: 2},
		models.CartItem{Product: p2, Quantity: 5},
		models.CartItem{Product: p3, Quantity: 1},
	)

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce", stockErr.ProductName)

	// The first line's order and stock deduction stand; nothing after the
	// failing line was processed. This pins down the non-transactional
	// behavior of multi-line checkout.
	require.Len(t, f.orders.inserted, 1)
	assert.Equal(t, p1, f.orders.inserted[0].OrderItems.Product)
	assert.Equal(t, 8, f.products.products[p1].Stock)
	assert.Equal(t, 1, f.products.products[p2].Stock)
	assert.Equal(t, 10, f.products.products[p3].Stock)

	assert.Equal(t, 0, f.gateway.calls)
	assert.Equal(t, 0, f.users.cartsCleared)
}

func TestCheckout_CODSkipsGateway(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	p := f.addProduct("Product A", 10, 50, dealer)
	f.setCart(models.CartItem{Product: p, Quantity: 2})

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "COD", "INR")
	require.NoError(t, err)

	require.Len(t, result.Orders, 1)
	assert.Equal(t, 100.0, result.Orders[0].TotalPrice)
	assert.Nil(t, result.GatewayOrder)
	assert.Empty(t, result.Orders[0].RazorpayOrderID)
	assert.Equal(t, 0, f.gateway.calls)
	assert.Equal(t, 1, f.users.cartsCleared)
}

func TestCheckout_MissingProductSkippedWhenPolicyAllows(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	gone := primitive.NewObjectID()
	p := f.addProduct("Still Here", 10, 25, dealer)
	f.setCart(
		models.CartItem{Product: gone, Quantity: 1},
		models.CartItem{Product: p, Quantity: 1},
	)
	f.svc.SkipMissingProducts = true

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, p, result.Orders[0].OrderItems.Product)
}

func TestCheckout_ProductLookupFailureNotSkipped(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	broken := f.addProduct("Unreachable", 10, 50, dealer)
	p := f.addProduct("Fine", 10, 50, dealer)
	f.setCart(
		models.CartItem{Product: broken, Quantity: 1},
		models.CartItem{Product: p, Quantity: 1},
	)
	f.products.errs = map[primitive.ObjectID]error{broken: context.DeadlineExceeded}
	f.svc.SkipMissingProducts = true

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")

	// A store failure is not a deleted product: it must surface as-is even
	// under the skip policy, and must not read as not-found.
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrProductNotFound))
	assert.Empty(t, f.orders.inserted)
	assert.Equal(t, 0, f.gateway.calls)
	assert.Equal(t, 0, f.users.cartsCleared)
}

func TestCheckout_AgentLookupFailureFailsCheckout(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	p := f.addProduct("Product A", 10, 50, dealer)
	f.setCart(models.CartItem{Product: p, Quantity: 1})
	f.users.errs = map[primitive.ObjectID]error{dealer: context.DeadlineExceeded}

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, f.orders.inserted)
	assert.Equal(t, 0, f.gateway.calls)
}

func TestCheckout_DeletedAgentPaysDefaultCommission(t *testing.T) {
	f := newFixture()
	goneDealer := primitive.NewObjectID()
	p := f.addProduct("Orphaned", 10, 100, goneDealer)
	f.setCart(models.CartItem{Product: p, Quantity: 1})

	result, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Orders[0].BalanceTotal)
	assert.Empty(t, f.gateway.lastReq.Transfers)
}

func TestCheckout_MissingProductFailsWhenPolicyStrict(t *testing.T) {
	f := newFixture()
	gone := primitive.NewObjectID()
	f.setCart(models.CartItem{Product: gone, Quantity: 1})
	f.svc.SkipMissingProducts = false

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_NoDefaultAddress(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	p := f.addProduct("Product A", 10, 50, dealer)
	f.setCart(models.CartItem{Product: p, Quantity: 1})
	f.svc.Addresses = &mockAddressStore{}

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	assert.ErrorIs(t, err, ErrNoDefaultAddress)
}

func TestCheckout_GatewayFailureLeavesOrders(t *testing.T) {
	f := newFixture()
	dealer := f.addDealer("plan 1", "acc_d")
	p := f.addProduct("Product A", 10, 50, dealer)
	f.setCart(models.CartItem{Product: p, Quantity: 1})
	f.gateway.err = errors.New("upstream down")

	_, err := f.svc.Checkout(context.Background(), f.buyerID, "Razorpay", "INR")
	require.ErrorIs(t, err, ErrGatewayFailure)

	// Orders and stock deductions are not rolled back, and the cart stays.
	assert.Len(t, f.orders.inserted, 1)
	assert.Equal(t, 9, f.products.products[p].Stock)
	assert.Equal(t, 0, f.users.cartsCleared)
}
