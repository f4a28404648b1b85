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

// CouponController handles coupon management requests
type CouponController struct {
	Collection *mongo.Collection
}

// NewCouponController creates a new CouponController
func NewCouponController(db *mongo.Database) *CouponController {
	return &CouponController{Collection: db.Collection("coupons")}
}

// GetCoupons lists all coupons
func (cc *CouponController) GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching coupons")
		return
	}
	defer cursor.Close(ctx)

	coupons := []models.Coupon{}
	if err := cursor.All(ctx, &coupons); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading coupons")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"coupons": coupons,
	})
}

// GetCouponByID retrieves a single coupon
func (cc *CouponController) GetCouponByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var coupon models.Coupon
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon); err != nil {
		writeError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"coupon":  coupon,
	})
}

// AddCoupon creates a coupon (admin)
func (cc *CouponController) AddCoupon(w http.ResponseWriter, r *http.Request) {
	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil || coupon.Code == "" {
		writeError(w, http.StatusBadRequest, "Coupon code is required")
		return
	}
	if coupon.Discount <= 0 || coupon.Discount > 100 {
		writeError(w, http.StatusBadRequest, "Discount must be between 0 and 100")
		return
	}

	coupon.IsActive = true
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = coupon.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.InsertOne(ctx, coupon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating coupon")
		return
	}
	coupon.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"coupon":  coupon,
	})
}

// UpdateCoupon updates a coupon (admin)
func (cc *CouponController) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon ID")
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

	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating coupon")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon updated successfully",
	})
}

// ToggleCouponStatus flips a coupon's isActive flag (admin)
func (cc *CouponController) ToggleCouponStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var coupon models.Coupon
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon); err != nil {
		writeError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	_, err = cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isActive": !coupon.IsActive, "updatedAt": time.Now()},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating coupon status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon status updated",
	})
}

// DeleteCoupon deletes a coupon (admin)
func (cc *CouponController) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting coupon")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Coupon not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon deleted successfully",
	})
}
