package programs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
)

type Repository interface {
	Create(ctx context.Context, item Program) error
	Get(ctx context.Context, id string) (Program, error)
	List(ctx context.Context, status string) ([]Program, error)
	Update(ctx context.Context, id string, set bson.M) (Program, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Program) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Program, error) {
	var item Program
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Program{}, err
	}
	return item, nil
}

func (r *MongoRepository) List(ctx context.Context, status string) ([]Program, error) {
	return db.FindAll[Program](ctx, r.col, db.EqualityFilter(map[string]string{"status": status}))
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Program, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Program
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Program{}, err
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
