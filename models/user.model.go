package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognised by the platform.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "admin"
	RoleManager    = "Manager"
	RoleUser       = "user"
)

// CartItem is one line of a user's embedded cart.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// BankDetails holds a dealer's payout bank account, captured at signup.
type BankDetails struct {
	BeneficiaryName string `bson:"beneficiaryName,omitempty" json:"beneficiaryName,omitempty"`
	BusinessType    string `bson:"businessType,omitempty" json:"businessType,omitempty"`
	IFSCCode        string `bson:"ifscCode,omitempty" json:"ifscCode,omitempty"`
	AccountNumber   string `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
}

// User represents an account. Dealers carry a plan, payout identifiers and
// bank details; plain users do not.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Phone             string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Password          string               `bson:"password,omitempty" json:"-"`
	GoogleID          string               `bson:"googleId,omitempty" json:"-"`
	LoginMethod       string               `bson:"loginMethod,omitempty" json:"loginMethod,omitempty"` // "local" or "google"
	Image             string               `bson:"image,omitempty" json:"image,omitempty"`
	Role              string               `bson:"role" json:"role"`
	IsDealer          bool                 `bson:"isDelers" json:"isDelers"`
	DealerName        string               `bson:"deler_name,omitempty" json:"deler_name,omitempty"`
	Plan              string               `bson:"plan,omitempty" json:"plan,omitempty"`
	PlanValidUntil    *time.Time           `bson:"planValidUntil,omitempty" json:"planValidUntil,omitempty"`
	RazorpayAccountID string               `bson:"razorpay_account_id,omitempty" json:"razorpay_account_id,omitempty"`
	BankDetails       *BankDetails         `bson:"razorpay_bank_details,omitempty" json:"-"`
	Status            bool                 `bson:"status" json:"status"`
	IsActive          bool                 `bson:"isActive" json:"isActive"`
	Cart              []CartItem           `bson:"cart" json:"cart"`
	CartTotal         float64              `bson:"cart_total" json:"cart_total"`
	Wishlist          []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	CreatedAt         time.Time            `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         time.Time            `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
