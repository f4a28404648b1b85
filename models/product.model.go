package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item owned by a dealer (the agent).
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Images       []string           `bson:"images,omitempty" json:"images,omitempty"`
	Stock        int                `bson:"stock" json:"stock"`
	ProductPrice float64            `bson:"product_price" json:"product_price"`
	SalePrice    float64            `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	Agent        primitive.ObjectID `bson:"agent,omitempty" json:"agent,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UnitPrice prefers the sale price over the base product price.
func (p *Product) UnitPrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.ProductPrice
}
