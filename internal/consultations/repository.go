package consultations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
)

type Repository interface {
	Create(ctx context.Context, item Consultation) error
	Get(ctx context.Context, id string) (Consultation, error)
	List(ctx context.Context, status string) ([]Consultation, error)
	Update(ctx context.Context, id string, set bson.M) (Consultation, error)
	PushNote(ctx context.Context, id string, note Note) (Consultation, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Consultation) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Consultation, error) {
	var item Consultation
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Consultation{}, err
	}
	return item, nil
}

func (r *MongoRepository) List(ctx context.Context, status string) ([]Consultation, error) {
	return db.FindAll[Consultation](ctx, r.col, db.EqualityFilter(map[string]string{"status": status}))
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Consultation, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) PushNote(ctx context.Context, id string, note Note) (Consultation, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$push": bson.M{"notes": note}})
}

func (r *MongoRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (Consultation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Consultation
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Consultation{}, err
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
