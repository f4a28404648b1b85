package services

import (
	"context"
	"errors"
	"time"

	"cart7-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo-backed implementations of the checkout store interfaces.

type mongoUserStore struct {
	coll *mongo.Collection
}

// NewUserStore returns a UserStore over the users collection.
func NewUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{coll: db.Collection("users")}
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) ClearCart(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"cart": []models.CartItem{}, "cart_total": 0},
	})
	return err
}

type mongoProductStore struct {
	coll *mongo.Collection
}

// NewProductStore returns a ProductStore over the products collection.
func NewProductStore(db *mongo.Database) ProductStore {
	return &mongoProductStore{coll: db.Collection("products")}
}

func (s *mongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *mongoProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": -quantity},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

type mongoOrderStore struct {
	coll *mongo.Collection
}

// NewOrderStore returns an OrderStore over the orders collection.
func NewOrderStore(db *mongo.Database) OrderStore {
	return &mongoOrderStore{coll: db.Collection("orders")}
}

func (s *mongoOrderStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *mongoOrderStore) SetGatewayOrderID(ctx context.Context, orderIDs []primitive.ObjectID, gatewayOrderID string) error {
	_, err := s.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": orderIDs}}, bson.M{
		"$set": bson.M{"razorpay_order_id": gatewayOrderID},
	})
	return err
}

// PaymentStore marks all orders of a gateway order as paid.
type PaymentStore interface {
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error)
}

// NewPaymentStore returns a PaymentStore over the orders collection.
func NewPaymentStore(db *mongo.Database) PaymentStore {
	return &mongoOrderStore{coll: db.Collection("orders")}
}

// MarkPaid sets paymentStatus on every order created for the gateway order.
// The update is a plain $set, so resubmitting a confirmation is a no-op.
func (s *mongoOrderStore) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (int64, error) {
	result, err := s.coll.UpdateMany(ctx,
		bson.M{"razorpay_order_id": gatewayOrderID},
		bson.M{"$set": bson.M{
			"paymentStatus":       models.PaymentPaid,
			"razorpay_payment_id": paymentID,
			"updatedAt":           time.Now(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

type mongoAddressStore struct {
	coll *mongo.Collection
}

// NewAddressStore returns an AddressStore over the addresses collection.
func NewAddressStore(db *mongo.Database) AddressStore {
	return &mongoAddressStore{coll: db.Collection("addresses")}
}

func (s *mongoAddressStore) FindDefault(ctx context.Context, userID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := s.coll.FindOne(ctx, bson.M{"user": userID, "isDefault": true}).Decode(&address)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDefaultAddress
		}
		return nil, err
	}
	return &address, nil
}
