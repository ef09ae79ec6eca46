package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect does not dial, so no server is needed to build buckets.
func TestGridFSBucketPerOperation(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	g, err := NewGridFS(client.Database("storage_test"))
	require.NoError(t, err)

	const workers = 8
	buckets := make([]*gridfs.Bucket, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i+1)*time.Second)
			defer cancel()
			b, err := g.bucket(ctx)
			assert.NoError(t, err)
			buckets[i] = b
		}(i)
	}
	wg.Wait()

	seen := map[*gridfs.Bucket]bool{}
	for _, b := range buckets {
		require.NotNil(t, b)
		assert.False(t, seen[b], "bucket handle shared between operations")
		seen[b] = true
	}

	b, err := g.bucket(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b)
}
