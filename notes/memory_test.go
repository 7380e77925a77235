package notes

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_DeleteKeepsOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		n, err := store.Create(ctx, &Note{Owner: alice, Title: title, Description: "d", Tag: DefaultTag})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	_, err := store.Delete(ctx, ids[1])
	require.NoError(t, err)

	list, err := store.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[0], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	n, err := store.Create(t.Context(), &Note{Owner: alice, Title: "t", Description: "d", Tag: DefaultTag})
	require.NoError(t, err)

	n.Title = "mutated"
	got, err := store.FindByID(t.Context(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(t.Context(), &Note{Owner: alice, Title: "t", Description: "d", Tag: DefaultTag})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := store.ListByOwner(t.Context(), alice)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
