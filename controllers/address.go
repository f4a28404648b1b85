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

// AddressController handles shipping address requests
type AddressController struct {
	Collection *mongo.Collection
}

// NewAddressController creates a new AddressController
func NewAddressController(db *mongo.Database) *AddressController {
	return &AddressController{Collection: db.Collection("addresses")}
}

func (ac *AddressController) callerID(r *http.Request) (primitive.ObjectID, bool) {
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

// GetAddresses lists the caller's addresses
func (ac *AddressController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := ac.Collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching addresses")
		return
	}
	defer cursor.Close(ctx)

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading addresses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"addresses": addresses,
	})
}

// AddAddress creates an address for the caller. The first address, or one
// flagged default, becomes the default; setting a default clears any other.
func (ac *AddressController) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if address.AddressLine == "" || address.City == "" || address.Pincode == "" {
		writeError(w, http.StatusBadRequest, "addressLine, city and pincode are required")
		return
	}
	address.ID = primitive.NilObjectID
	address.User = userID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := ac.Collection.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		address.IsDefault = true
	} else if address.IsDefault {
		if err := ac.clearDefault(ctx, userID); err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	result, err := ac.Collection.InsertOne(ctx, address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating address")
		return
	}
	address.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"address": address,
	})
}

// UpdateAddress updates one of the caller's addresses
func (ac *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address ID")
		return
	}

	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	delete(fields, "_id")
	delete(fields, "user")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if isDefault, ok := fields["isDefault"].(bool); ok && isDefault {
		if err := ac.clearDefault(ctx, userID); err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	result, err := ac.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": fields},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating address")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Address not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Address updated successfully",
	})
}

// DeleteAddress removes one of the caller's addresses
func (ac *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := ac.Collection.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting address")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Address not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Address deleted successfully",
	})
}

func (ac *AddressController) clearDefault(ctx context.Context, userID primitive.ObjectID) error {
	_, err := ac.Collection.UpdateMany(ctx,
		bson.M{"user": userID, "isDefault": true},
		bson.M{"$set": bson.M{"isDefault": false}},
	)
	return err
}
