package settings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Get(ctx context.Context) (StoreSettings, error)
	Upsert(ctx context.Context, set bson.M) (StoreSettings, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context) (StoreSettings, error) {
	var item StoreSettings
	if err := r.col.FindOne(ctx, bson.M{"_id": StoreID}).Decode(&item); err != nil {
		return StoreSettings{}, err
	}
	return item, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, set bson.M) (StoreSettings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"partnerBrands": bson.A{},
		},
	}
	if _, ok := set["partnerBrands"]; ok {
		delete(update, "$setOnInsert")
	}

	var item StoreSettings
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": StoreID}, update, opts).Decode(&item); err != nil {
		return StoreSettings{}, err
	}
	return item, nil
}
