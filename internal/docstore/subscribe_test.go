package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeDeliversImmediately(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := Doc("notifications", "n1")
	require.NoError(t, err)
	require.NoError(t, store.SetDoc(ctx, ref, Document{"recipientId": "u1"}))

	var results []QueryResult
	stop := store.Subscribe(NewQuery(Collection("notifications"), Where("recipientId", "==", "u1")), func(r QueryResult) {
		results = append(results, r)
	})
	defer stop()

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Count)
}

func TestSubscribeRedeliversOnEveryMutation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var results []QueryResult
	stop := store.Subscribe(NewQuery(Collection("notifications"), Where("recipientId", "==", "u1")), func(r QueryResult) {
		results = append(results, r)
	})
	defer stop()
	require.Len(t, results, 1)

	// Relevant change: one delivery containing the new document.
	_, err := store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u1", "title": "hello"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[1].Count)
	assert.Equal(t, "hello", results[1].Docs[0].Data["title"])

	// Unrelated change: the subscriber is still re-invoked, with its own
	// unchanged result set. Re-evaluation is unconditional, no diffing.
	_, err = store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u2", "title": "other"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[2].Count)
	assert.Equal(t, "hello", results[2].Docs[0].Data["title"])
}

func TestUnsubscribeStopsDeliveriesAndIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	deliveries := 0
	stop := store.Subscribe(NewQuery(Collection("notifications")), func(QueryResult) {
		deliveries++
	})
	require.Equal(t, 1, deliveries)

	stop()
	stop()

	_, err := store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, deliveries)
}

func TestSubscribersAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var inboxU1, inboxU2 int
	stopU1 := store.Subscribe(NewQuery(Collection("notifications"), Where("recipientId", "==", "u1")), func(r QueryResult) {
		inboxU1 = r.Count
	})
	defer stopU1()
	stopU2 := store.Subscribe(NewQuery(Collection("notifications"), Where("recipientId", "==", "u2")), func(r QueryResult) {
		inboxU2 = r.Count
	})
	defer stopU2()

	_, err := store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u1"})
	require.NoError(t, err)
	_, err = store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u1"})
	require.NoError(t, err)
	_, err = store.AddDoc(ctx, Collection("notifications"), Document{"recipientId": "u2"})
	require.NoError(t, err)

	assert.Equal(t, 2, inboxU1)
	assert.Equal(t, 1, inboxU2)
}
