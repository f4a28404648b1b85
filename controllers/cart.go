package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cart7-backend/middleware"
	"cart7-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartController manages the cart embedded on the user document
type CartController struct {
	Users *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(db *mongo.Database) *CartController {
	return &CartController{Users: db.Collection("users")}
}

func (cc *CartController) callerID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetCart returns the user's cart lines joined with product details
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := cc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$unwind", Value: "$cart"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "cart.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		{{Key: "$unwind", Value: "$productDetails"}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"product":    "$productDetails",
			"quantity":   "$cart.quantity",
			"cart_total": 1,
		}}},
	}

	cursor, err := cc.Users.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}
	defer cursor.Close(ctx)

	items := []bson.M{}
	if err := cursor.All(ctx, &items); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cart":    items,
	})
}

// AddToCart adds a product line, merging quantity when the line exists
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := cc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := cc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	merged := false
	for i, line := range user.Cart {
		if line.Product == productID {
			user.Cart[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		user.Cart = append(user.Cart, models.CartItem{Product: productID, Quantity: req.Quantity})
	}

	if _, err := cc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"cart": user.Cart},
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item added to cart",
		"cart":    user.Cart,
	})
}

// UpdateCartQuantity sets the quantity of one cart line
func (cc *CartController) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := cc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Users.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.product": productID},
		bson.M{"$set": bson.M{"cart.$.quantity": req.Quantity}},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart updated",
	})
}

// RemoveFromCart deletes one cart line
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := cc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = cc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"cart": bson.M{"product": productID}},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item removed from cart",
	})
}
