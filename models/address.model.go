package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping address owned by a user. Order creation uses the
// user's single default address.
type Address struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	RecipientName string             `bson:"recipientName" json:"recipientName"`
	AddressLine   string             `bson:"addressLine" json:"addressLine"`
	City          string             `bson:"city" json:"city"`
	State         string             `bson:"state" json:"state"`
	Pincode       string             `bson:"pincode" json:"pincode"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault     bool               `bson:"isDefault" json:"isDefault"`
}
