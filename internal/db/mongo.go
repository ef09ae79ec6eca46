package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Database         *mongo.Database
	Users            *mongo.Collection
	Products         *mongo.Collection
	BlogPosts        *mongo.Collection
	Consultations    *mongo.Collection
	Programs         *mongo.Collection
	StoreSettings    *mongo.Collection
	Orders           *mongo.Collection
	ContactInquiries *mongo.Collection
	UploadTickets    *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, Bind(client.Database(dbName)), nil
}

func Bind(db *mongo.Database) *Collections {
	return &Collections{
		Database:         db,
		Users:            db.Collection("users"),
		Products:         db.Collection("products"),
		BlogPosts:        db.Collection("blog_posts"),
		Consultations:    db.Collection("consultations"),
		Programs:         db.Collection("programs"),
		StoreSettings:    db.Collection("store_settings"),
		Orders:           db.Collection("orders"),
		ContactInquiries: db.Collection("contact_inquiries"),
		UploadTickets:    db.Collection("upload_tickets"),
	}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	plan := []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{cols.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{cols.Products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "store", Value: 1}}},
		}},
		{cols.BlogPosts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		}},
		{cols.Consultations, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{cols.Programs, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{cols.Orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
		{cols.UploadTickets, []mongo.IndexModel{
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		}},
	}

	for _, p := range plan {
		if _, err := p.col.Indexes().CreateMany(indexTimeout, p.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", p.col.Name(), err)
		}
	}
	return nil
}

// FindAll runs a find and decodes every document. It never returns a nil
// slice on success.
func FindAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// EqualityFilter builds a filter from the non-empty values of fields.
func EqualityFilter(fields map[string]string) bson.M {
	filter := bson.M{}
	for k, v := range fields {
		if v != "" {
			filter[k] = v
		}
	}
	return filter
}
