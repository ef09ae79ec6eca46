package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errNoFile = errors.New("file not found")

type TicketStore interface {
	Insert(ctx context.Context, ticket Ticket) error
	// Consume deletes the ticket and reports whether it existed unexpired.
	Consume(ctx context.Context, token string, now time.Time) (bool, error)
}

type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Stat(ctx context.Context, id string) (File, error)
	Open(ctx context.Context, id string) (io.ReadCloser, File, error)
}

type MongoTickets struct {
	col *mongo.Collection
}

func NewTicketStore(col *mongo.Collection) *MongoTickets {
	return &MongoTickets{col: col}
}

func (t *MongoTickets) Insert(ctx context.Context, ticket Ticket) error {
	_, err := t.col.InsertOne(ctx, ticket)
	return err
}

func (t *MongoTickets) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	filter := bson.M{"_id": token, "expiresAt": bson.M{"$gt": now}}
	err := t.col.FindOneAndDelete(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const bucketName = "uploads"

// GridFSBlobs stores uploads in the "uploads" bucket. Deadlines are set per
// bucket, so every operation opens its own bucket handle; this does not
// touch the server.
type GridFSBlobs struct {
	db *mongo.Database
}

func NewGridFS(db *mongo.Database) (*GridFSBlobs, error) {
	g := &GridFSBlobs{db: db}
	if _, err := g.bucket(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GridFSBlobs) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(g.db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

type fileMetadata struct {
	ContentType string `bson:"contentType"`
}

func (g *GridFSBlobs) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	bucket, err := g.bucket(ctx)
	if err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(fileMetadata{ContentType: contentType})
	id, err := bucket.UploadFromStream(filename, body, opts)
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return id.Hex(), nil
}

func (g *GridFSBlobs) Stat(ctx context.Context, id string) (File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return File{}, errNoFile
	}
	bucket, err := g.bucket(ctx)
	if err != nil {
		return File{}, err
	}
	cursor, err := bucket.FindContext(ctx, bson.M{"_id": oid})
	if err != nil {
		return File{}, fmt.Errorf("gridfs find: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return File{}, err
		}
		return File{}, errNoFile
	}
	var f gridfs.File
	if err := cursor.Decode(&f); err != nil {
		return File{}, err
	}
	return toFile(id, &f), nil
}

func (g *GridFSBlobs) Open(ctx context.Context, id string) (io.ReadCloser, File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, File{}, errNoFile
	}
	bucket, err := g.bucket(ctx)
	if err != nil {
		return nil, File{}, err
	}
	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, File{}, errNoFile
		}
		return nil, File{}, fmt.Errorf("gridfs open: %w", err)
	}
	return stream, toFile(id, stream.GetFile()), nil
}

func toFile(id string, f *gridfs.File) File {
	out := File{
		ID:         id,
		Filename:   f.Name,
		Length:     f.Length,
		UploadedAt: f.UploadDate,
	}
	var meta fileMetadata
	if len(f.Metadata) > 0 && bson.Unmarshal(f.Metadata, &meta) == nil {
		out.ContentType = meta.ContentType
	}
	return out
}
