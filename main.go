package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"cart7-backend/controllers"
	"cart7-backend/routes"
	"cart7-backend/services"
	"cart7-backend/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger := utils.InitLogger()
	defer logger.Sync()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, proceeding with environment variables")
	}

	utils.JwtKey = []byte(os.Getenv("ACCESS_TOKEN_SECRET"))

	client, err := utils.ConnectDB()
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect failed", zap.Error(err))
		}
	}()
	db := utils.Database(client)

	// Daily plan-expiry downgrade
	cronRunner := utils.StartCronJobs(db, logger)
	defer cronRunner.Stop()

	emailService := utils.NewEmailService()
	if emailService == nil {
		logger.Info("POSTMARK_API_TOKEN not set, email disabled")
	}

	gateway := services.NewRazorpayGateway(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)
	checkout := &services.CheckoutService{
		Users:               services.NewUserStore(db),
		Products:            services.NewProductStore(db),
		Orders:              services.NewOrderStore(db),
		Addresses:           services.NewAddressStore(db),
		Gateway:             gateway,
		SkipMissingProducts: os.Getenv("CHECKOUT_SKIP_MISSING") != "false",
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Auth:     controllers.NewAuthController(db, logger),
		User:     controllers.NewUserController(db),
		Cart:     controllers.NewCartController(db),
		Wishlist: controllers.NewWishlistController(db),
		Product:  controllers.NewProductController(db),
		Category: controllers.NewCategoryController(db),
		Coupon:   controllers.NewCouponController(db),
		Offer:    controllers.NewOfferController(db),
		Address:  controllers.NewAddressController(db),
		Order:    controllers.NewOrderController(db, checkout, emailService, logger),
		Payment:  controllers.NewPaymentController(db, logger),
	})

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	logger.Info("server starting", zap.String("port", port))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(":"+port, corsHandler(router))))
}

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{
		"https://www.cart7online.com",
		"https://admin.cart7online.com",
		"http://localhost:5173",
		"http://localhost:5174",
	}
}
