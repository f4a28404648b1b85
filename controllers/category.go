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

// CategoryController handles category management requests
type CategoryController struct {
	Collection *mongo.Collection
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(db *mongo.Database) *CategoryController {
	return &CategoryController{Collection: db.Collection("categories")}
}

// GetCategories lists active categories
func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	cc.list(w, r, bson.M{"isActive": true})
}

// GetAllCategories lists every category including inactive ones (admin)
func (cc *CategoryController) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	cc.list(w, r, bson.M{})
}

func (cc *CategoryController) list(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

// GetCategoryByID retrieves a single category
func (cc *CategoryController) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var category models.Category
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

// AddCategory creates a category (admin)
func (cc *CategoryController) AddCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil || category.Name == "" {
		writeError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category.IsActive = true
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.InsertOne(ctx, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating category")
		return
	}
	category.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

// UpdateCategory updates a category (admin)
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
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
		writeError(w, http.StatusInternalServerError, "Error updating category")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category updated successfully",
	})
}

// ToggleCategoryStatus flips a category's isActive flag (admin)
func (cc *CategoryController) ToggleCategoryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var category models.Category
	if err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	_, err = cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"isActive": !category.IsActive, "updatedAt": time.Now()},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating category status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category status updated",
	})
}

// DeleteCategory deletes a category (admin)
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category deleted successfully",
	})
}
