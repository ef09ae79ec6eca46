package products

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
)

type Repository interface {
	Create(ctx context.Context, item Product) error
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Update(ctx context.Context, id string, set bson.M) (Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Bump increments counter and recomputes conversionRate in one write.
	Bump(ctx context.Context, id, counter string) (Product, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Product) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Product, error) {
	var item Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Product{}, err
	}
	return item, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	return db.FindAll[Product](ctx, r.col, db.EqualityFilter(map[string]string{
		"status":   filter.Status,
		"category": filter.Category,
		"store":    filter.Store,
	}))
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) Bump(ctx context.Context, id, counter string) (Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{counter: bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + counter, 0}}, 1}}}}},
		{{Key: "$set", Value: bson.M{"conversionRate": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{"$views", 0}},
			bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{bson.M{"$ifNull": bson.A{"$addToCartCount", 0}}, "$views"}}, 100}},
			0,
		}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}
