package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersistence struct {
	loadErr error
	saveErr error
	blobs   map[string][]byte
}

func (p *failingPersistence) Load(key string) ([]byte, bool, error) {
	if p.loadErr != nil {
		return nil, false, p.loadErr
	}
	blob, ok := p.blobs[key]
	return blob, ok, nil
}

func (p *failingPersistence) Save(key string, blob []byte) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	if p.blobs == nil {
		p.blobs = make(map[string][]byte)
	}
	p.blobs[key] = blob
	return nil
}

func TestStoreSurvivesRestart(t *testing.T) {
	persistence := NewMemoryPersistence()
	ctx := context.Background()

	store, err := NewStore(persistence)
	require.NoError(t, err)

	ref, err := Doc("offerings", "o1")
	require.NoError(t, err)
	require.NoError(t, store.SetDoc(ctx, ref, Document{"itemName": "oysters", "price": 8.0}))

	reloaded, err := NewStore(persistence)
	require.NoError(t, err)

	result, err := reloaded.GetDoc(ctx, ref)
	require.NoError(t, err)
	require.True(t, result.Exists)
	assert.Equal(t, "oysters", result.Data["itemName"])
	assert.Equal(t, 8.0, result.Data["price"])
}

func TestStoreFilePersistenceRoundTrip(t *testing.T) {
	persistence := NewFilePersistence(t.TempDir())
	ctx := context.Background()

	store, err := NewStore(persistence)
	require.NoError(t, err)

	ref, err := Doc("items", "i1")
	require.NoError(t, err)
	require.NoError(t, store.SetDoc(ctx, ref, Document{"name": "mussels"}))

	reloaded, err := NewStore(persistence)
	require.NoError(t, err)
	result, err := reloaded.GetDoc(ctx, ref)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, "mussels", result.Data["name"])
}

func TestStoreUnavailableMediumStartsEmpty(t *testing.T) {
	store, err := NewStore(&failingPersistence{loadErr: errors.New("medium denied")})
	require.NoError(t, err)

	result, err := store.GetDocs(context.Background(), NewQuery(Collection("offerings")))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestStoreCorruptBlobDegradesToMemoryOnly(t *testing.T) {
	persistence := NewMemoryPersistence()
	require.NoError(t, persistence.Save(DatasetKey, []byte("{not json")))

	store, err := NewStore(persistence)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotNil(t, store)

	// The degraded store keeps working and never rewrites the blob.
	ctx := context.Background()
	ref, refErr := Doc("items", "i1")
	require.NoError(t, refErr)
	require.NoError(t, store.SetDoc(ctx, ref, Document{"name": "clams"}))

	result, getErr := store.GetDoc(ctx, ref)
	require.NoError(t, getErr)
	assert.True(t, result.Exists)

	blob, ok, loadErr := persistence.Load(DatasetKey)
	require.NoError(t, loadErr)
	require.True(t, ok)
	assert.Equal(t, []byte("{not json"), blob)
}

func TestStoreConcurrentMutatorsPersistEveryWrite(t *testing.T) {
	persistence := NewMemoryPersistence()
	ctx := context.Background()

	store, err := NewStore(persistence)
	require.NoError(t, err)

	const perWriter = 200
	var wg sync.WaitGroup
	for _, collection := range []string{"offerings", "reservations"} {
		wg.Add(1)
		go func(collection string) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				ref, refErr := Doc(collection, fmt.Sprintf("d%03d", i))
				assert.NoError(t, refErr)
				assert.NoError(t, store.SetDoc(ctx, ref, Document{"n": int64(i)}))
			}
		}(collection)
	}
	wg.Wait()

	// The last persisted snapshot must be the newest one, so a reload sees
	// every write from both goroutines.
	reloaded, err := NewStore(persistence)
	require.NoError(t, err)
	for _, collection := range []string{"offerings", "reservations"} {
		result, listErr := reloaded.GetDocs(ctx, NewQuery(Collection(collection)))
		require.NoError(t, listErr)
		assert.Equal(t, perWriter, result.Count, collection)
	}
}

func TestStoreSaveFailureKeepsSnapshotInMemory(t *testing.T) {
	store, err := NewStore(&failingPersistence{saveErr: errors.New("disk full")})
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := Doc("items", "i1")
	require.NoError(t, err)
	require.NoError(t, store.SetDoc(ctx, ref, Document{"name": "scallops"}))

	result, err := store.GetDoc(ctx, ref)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, "scallops", result.Data["name"])
}
