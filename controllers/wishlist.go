package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cart7-backend/middleware"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WishlistController manages the wishlist embedded on the user document
type WishlistController struct {
	Users *mongo.Collection
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(db *mongo.Database) *WishlistController {
	return &WishlistController{Users: db.Collection("users")}
}

func (wc *WishlistController) callerID(r *http.Request) (primitive.ObjectID, bool) {
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

// GetWishlist returns the user's wished products with details
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := wc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "wishlist",
			"foreignField": "_id",
			"as":           "wishlistProducts",
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "wishlistProducts": 1}}},
	}

	cursor, err := wc.Users.Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve wishlist")
		return
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode wishlist")
		return
	}

	wishlist := []interface{}{}
	if len(results) > 0 {
		if products, ok := results[0]["wishlistProducts"].(bson.A); ok {
			wishlist = products
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"wishlist": wishlist,
	})
}

// AddToWishlist adds a product reference, ignoring duplicates
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := wc.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productId"`
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := wc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"wishlist": productID},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item added to wishlist",
	})
}

// RemoveFromWishlist removes a product reference
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := wc.callerID(r)
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

	_, err = wc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"wishlist": productID},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item removed from wishlist",
	})
}
