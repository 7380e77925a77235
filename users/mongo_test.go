package users

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoStore connects to NOTEKEEPER_TEST_MONGO_URL and returns a store on a
// throwaway database, skipping the test when no server is configured.
func newMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("NOTEKEEPER_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("NOTEKEEPER_TEST_MONGO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("notekeeper_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	store := NewMongoStore(db)
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestMongoStore(t *testing.T) {
	store := newMongoStore(t)
	ctx := context.Background()

	ann, err := store.Create(ctx, &User{Name: "Ann Lee", Email: "ann@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Len(t, ann.ID, 24)

	_, err = store.Create(ctx, &User{Name: "Other", Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := store.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = store.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)

	_, err = store.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
