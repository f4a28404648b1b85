package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cart7-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OfferController handles offer management requests
type OfferController struct {
	Collection *mongo.Collection
}

// NewOfferController creates a new OfferController
func NewOfferController(db *mongo.Database) *OfferController {
	return &OfferController{Collection: db.Collection("offers")}
}

// GetOffers lists all offers
func (oc *OfferController) GetOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := oc.Collection.Find(ctx, bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching offers")
		return
	}
	defer cursor.Close(ctx)

	offers := []models.Offer{}
	if err := cursor.All(ctx, &offers); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading offers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"offers":  offers,
	})
}

// AddOffer creates an offer (admin)
func (oc *OfferController) AddOffer(w http.ResponseWriter, r *http.Request) {
	var offer models.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil || offer.Title == "" {
		writeError(w, http.StatusBadRequest, "Offer title is required")
		return
	}
	if offer.Percentage <= 0 || offer.Percentage > 100 {
		writeError(w, http.StatusBadRequest, "Percentage must be between 0 and 100")
		return
	}

	offer.IsActive = true
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := oc.Collection.InsertOne(ctx, offer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating offer")
		return
	}
	offer.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"offer":   offer,
	})
}

// UpdateOffer updates an offer (admin)
func (oc *OfferController) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid offer ID")
		return
	}

	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	delete(fields, "_id")
	fields["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := oc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating offer")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Offer not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Offer updated successfully",
	})
}

// DeleteOffer deletes an offer (admin)
func (oc *OfferController) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid offer ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := oc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting offer")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Offer not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Offer deleted successfully",
	})
}
