package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"cart7-backend/models"
	"cart7-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// Dealer subscriptions run 30 days from signup.
const planDurationDays = 30

// AuthController handles signup and login
type AuthController struct {
	Users  *mongo.Collection
	Logger *zap.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(db *mongo.Database, logger *zap.Logger) *AuthController {
	return &AuthController{
		Users:  db.Collection("users"),
		Logger: logger,
	}
}

type signupRequest struct {
	Name                   string `json:"name"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Password               string `json:"password"`
	Role                   string `json:"role"`
	CompanyName            string `json:"companyname"`
	Plan                   string `json:"plan"`
	BeneficiaryName        string `json:"beneficiaryName"`
	BusinessType           string `json:"businessType"`
	IFSCCode               string `json:"ifscCode"`
	AccountNumber          string `json:"accountNumber"`
	ReenteredAccountNumber string `json:"reenteredAccountNumber"`
}

// Signup handles account creation for users and dealers
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password == "" || req.Name == "" || req.Phone == "" || req.Role == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	isDealer := req.Role != models.RoleUser
	if isDealer {
		if req.AccountNumber != req.ReenteredAccountNumber {
			writeError(w, http.StatusBadRequest, "Account number and re-entered account number do not match")
			return
		}
		if req.Plan == "" || req.CompanyName == "" || req.BeneficiaryName == "" ||
			req.BusinessType == "" || req.IFSCCode == "" || req.AccountNumber == "" {
			writeError(w, http.StatusBadRequest, "Missing required dealer fields")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := ac.Users.CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"email": req.Email}, bson.M{"phone": req.Phone}},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeError(w, http.StatusUnprocessableEntity, "User Already Exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	now := time.Now()
	user := models.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    string(hashed),
		Role:        req.Role,
		LoginMethod: "local",
		IsActive:    true,
		Cart:        []models.CartItem{},
		Wishlist:    []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if isDealer {
		validUntil := now.AddDate(0, 0, planDurationDays)
		user.IsDealer = true
		user.DealerName = req.CompanyName
		user.Plan = req.Plan
		user.PlanValidUntil = &validUntil
		user.Status = false
		user.BankDetails = &models.BankDetails{
			BeneficiaryName: req.BeneficiaryName,
			BusinessType:    req.BusinessType,
			IFSCCode:        req.IFSCCode,
			AccountNumber:   req.AccountNumber,
		}
	} else {
		user.Status = true
	}

	if _, err := ac.Users.InsertOne(ctx, user); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account has been created successfully",
	})
}

// Login handles user authentication
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid input data")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := ac.Users.FindOne(ctx, bson.M{"email": creds.Email, "isActive": true}).Decode(&user)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User does not exist")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid password or Username")
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"accessToken": accessToken,
		"userData": map[string]string{
			"name":  user.Name,
			"phone": user.Phone,
			"email": user.Email,
			"image": user.Image,
			"role":  user.Role,
		},
		"message": "Login successful",
	})
}

// GoogleLogin verifies a Google ID token and signs the user in, creating
// the account on first sight.
func (ac *AuthController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "Token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payload, err := idtoken.Validate(ctx, req.Token, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		ac.Logger.Warn("google token validation failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "Google login failed")
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	status := http.StatusOK
	message := "Login successful"

	var user models.User
	err = ac.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		now := time.Now()
		user = models.User{
			Name:        name,
			Email:       email,
			Image:       picture,
			GoogleID:    payload.Subject,
			LoginMethod: "google",
			Role:        models.RoleUser,
			Status:      true,
			IsActive:    true,
			Cart:        []models.CartItem{},
			Wishlist:    []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		result, err := ac.Users.InsertOne(ctx, user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error creating user")
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)
		status = http.StatusCreated
		message = "Account has been created successfully"
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"success":     true,
		"accessToken": accessToken,
		"message":     message,
		"userData": map[string]string{
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
			"image": user.Image,
		},
	})
}
