package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
)

type Repository interface {
	Create(ctx context.Context, order Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, status string) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, id string, set bson.M) (Order, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, order Order) error {
	_, err := r.col.InsertOne(ctx, order)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Order, error) {
	var order Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (r *MongoRepository) List(ctx context.Context, status string) ([]Order, error) {
	return db.FindAll[Order](ctx, r.col, db.EqualityFilter(map[string]string{"status": status}))
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return db.FindAll[Order](ctx, r.col, bson.M{"userId": userID}, opts)
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Order
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Order{}, err
	}
	return updated, nil
}
