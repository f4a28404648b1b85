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

// UserController handles user management requests
type UserController struct {
	Users    *mongo.Collection
	Products *mongo.Collection
	Orders   *mongo.Collection
}

// NewUserController creates a new UserController
func NewUserController(db *mongo.Database) *UserController {
	return &UserController{
		Users:    db.Collection("users"),
		Products: db.Collection("products"),
		Orders:   db.Collection("orders"),
	}
}

// GetUsers lists users for the caller's role: Super Admin sees everyone
// below them, a dealer admin sees the buyers of their own products.
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var caller models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&caller); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var users []bson.M
	switch caller.Role {
	case models.RoleSuperAdmin:
		cursor, err := uc.Users.Find(ctx, bson.M{"role": bson.M{"$ne": models.RoleSuperAdmin}})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &users); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to decode users")
			return
		}
	case models.RoleAdmin:
		users, err = uc.buyersOfDealer(ctx, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
			return
		}
	default:
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Users retrieved successfully.",
		"users":   users,
	})
}

// buyersOfDealer aggregates the distinct users who ordered any of the
// dealer's products.
func (uc *UserController) buyersOfDealer(ctx context.Context, dealerID primitive.ObjectID) ([]bson.M, error) {
	cursor, err := uc.Products.Find(ctx, bson.M{"agent": dealerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []bson.M{}, nil
	}
	productIDs := make([]primitive.ObjectID, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderItems.product": bson.M{"$in": productIDs}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "userDetails",
		}}},
		{{Key: "$unwind", Value: "$userDetails"}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$user",
			"user": bson.M{"$first": "$userDetails"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$user"}}},
	}

	aggCursor, err := uc.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer aggCursor.Close(ctx)

	var buyers []bson.M
	if err := aggCursor.All(ctx, &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

// ToggleUserStatus flips a user's isActive flag (admin)
func (uc *UserController) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isActive": !user.IsActive},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated Successfully.",
	})
}

// GetUserDetail returns the authenticated user's profile
func (uc *UserController) GetUserDetail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User retrieved successfully.",
		"user": map[string]string{
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"image": user.Image,
		},
	})
}

// UpdateUserDetail updates the authenticated user's profile fields
func (uc *UserController) UpdateUserDetail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.Image != "" {
		update["image"] = req.Image
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := uc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully.",
	})
}
