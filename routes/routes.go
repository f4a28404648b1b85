package routes

import (
	"net/http"

	"cart7-backend/controllers"
	"cart7-backend/middleware"

	"github.com/gorilla/mux"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Cart     *controllers.CartController
	Wishlist *controllers.WishlistController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Coupon   *controllers.CouponController
	Offer    *controllers.OfferController
	Address  *controllers.AddressController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
}

func protected(h http.HandlerFunc) http.Handler {
	return middleware.CheckAuth(h)
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.CheckAuth(middleware.AdminOnly(h))
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Auth
	router.HandleFunc("/signup", c.Auth.Signup).Methods("POST")
	router.HandleFunc("/login", c.Auth.Login).Methods("POST")
	router.HandleFunc("/google-login", c.Auth.GoogleLogin).Methods("POST")

	// User management
	router.Handle("/", protected(c.User.GetUsers)).Methods("GET")
	router.Handle("/detail", protected(c.User.GetUserDetail)).Methods("GET")
	router.Handle("/detail", protected(c.User.UpdateUserDetail)).Methods("PUT")
	router.Handle("/admin/toggle-status/{id}", adminOnly(c.User.ToggleUserStatus)).Methods("PUT")

	// Cart
	router.Handle("/cart", protected(c.Cart.GetCart)).Methods("GET")
	router.Handle("/cart", protected(c.Cart.AddToCart)).Methods("POST")
	router.Handle("/cart/{productId}", protected(c.Cart.UpdateCartQuantity)).Methods("PUT")
	router.Handle("/cart/{productId}", protected(c.Cart.RemoveFromCart)).Methods("DELETE")

	// Wishlist
	router.Handle("/wishlist", protected(c.Wishlist.GetWishlist)).Methods("GET")
	router.Handle("/wishlist", protected(c.Wishlist.AddToWishlist)).Methods("POST")
	router.Handle("/wishlist/{productId}", protected(c.Wishlist.RemoveFromWishlist)).Methods("DELETE")

	// Products
	product := router.PathPrefix("/product").Subrouter()
	product.HandleFunc("", c.Product.GetProducts).Methods("GET")
	product.HandleFunc("/{id}", c.Product.GetProductByID).Methods("GET")
	product.Handle("/admin", adminOnly(c.Product.CreateProduct)).Methods("POST")
	product.Handle("/admin/{id}", adminOnly(c.Product.UpdateProduct)).Methods("PUT")
	product.Handle("/admin/{id}", adminOnly(c.Product.DeleteProduct)).Methods("DELETE")
	product.Handle("/admin/toggle-status/{id}", adminOnly(c.Product.ToggleProductStatus)).Methods("PUT")

	// Categories
	category := router.PathPrefix("/category").Subrouter()
	category.HandleFunc("", c.Category.GetCategories).Methods("GET")
	category.HandleFunc("/all", c.Category.GetAllCategories).Methods("GET")
	category.HandleFunc("/{id}", c.Category.GetCategoryByID).Methods("GET")
	category.Handle("/admin", adminOnly(c.Category.AddCategory)).Methods("POST")
	category.Handle("/admin/{id}", adminOnly(c.Category.UpdateCategory)).Methods("PUT")
	category.Handle("/admin/{id}", adminOnly(c.Category.DeleteCategory)).Methods("DELETE")
	category.Handle("/admin/toggle-status/{id}", adminOnly(c.Category.ToggleCategoryStatus)).Methods("PUT")

	// Coupons
	coupon := router.PathPrefix("/coupon").Subrouter()
	coupon.HandleFunc("", c.Coupon.GetCoupons).Methods("GET")
	coupon.HandleFunc("/{id}", c.Coupon.GetCouponByID).Methods("GET")
	coupon.Handle("/add", adminOnly(c.Coupon.AddCoupon)).Methods("POST")
	coupon.Handle("/{id}", adminOnly(c.Coupon.UpdateCoupon)).Methods("PUT")
	coupon.Handle("/update/{id}", adminOnly(c.Coupon.ToggleCouponStatus)).Methods("PUT")
	coupon.Handle("/{id}", adminOnly(c.Coupon.DeleteCoupon)).Methods("DELETE")

	// Offers
	offer := router.PathPrefix("/offer").Subrouter()
	offer.HandleFunc("", c.Offer.GetOffers).Methods("GET")
	offer.Handle("/admin", adminOnly(c.Offer.AddOffer)).Methods("POST")
	offer.Handle("/admin/{id}", adminOnly(c.Offer.UpdateOffer)).Methods("PUT")
	offer.Handle("/admin/{id}", adminOnly(c.Offer.DeleteOffer)).Methods("DELETE")

	// Addresses
	address := router.PathPrefix("/address").Subrouter()
	address.Handle("", protected(c.Address.GetAddresses)).Methods("GET")
	address.Handle("", protected(c.Address.AddAddress)).Methods("POST")
	address.Handle("/{id}", protected(c.Address.UpdateAddress)).Methods("PUT")
	address.Handle("/{id}", protected(c.Address.DeleteAddress)).Methods("DELETE")

	// Orders
	order := router.PathPrefix("/order").Subrouter()
	order.HandleFunc("", c.Order.GetOrders).Methods("GET")
	order.Handle("", protected(c.Order.CreateOrder)).Methods("POST")
	order.Handle("/details", protected(c.Order.GetOrdersByUser)).Methods("GET")
	order.Handle("/check-cart", protected(c.Order.CheckCart)).Methods("GET")
	order.HandleFunc("/payment/verify-payment", c.Payment.VerifyPayment).Methods("POST")
	order.HandleFunc("/delivery-status/{orderId}", c.Order.UpdateDeliveryStatus).Methods("PUT")
	order.HandleFunc("/webhook", c.Order.ShippingWebhook).Methods("POST")
	order.Handle("/weekly-orders", protected(c.Order.WeeklyOrders)).Methods("GET")
	order.Handle("/sales-by-category", protected(c.Order.SalesByCategory)).Methods("GET")
}
