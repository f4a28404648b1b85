package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is a time-bound percentage promotion on a category.
type Offer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	Percentage float64            `bson:"percentage" json:"percentage"`
	Category   primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	ValidFrom  *time.Time         `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidUntil *time.Time         `bson:"validUntil,omitempty" json:"validUntil,omitempty"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
