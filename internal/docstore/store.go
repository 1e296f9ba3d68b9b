// Package docstore is a single-process mock of a cloud document database:
// named collections of schemaless documents, equality queries with one sort
// key, batched writes, field-level atomic increments and snapshot-listener
// subscriptions. The whole dataset is persisted best-effort as one blob under
// a well-known key; when the medium is unavailable the store degrades to
// memory-only for the process lifetime.
package docstore

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Document is a schemaless field map. Schema is a contract upheld by callers.
type Document map[string]any

// Snapshot pairs a document with its id inside a query result.
type Snapshot struct {
	ID   string
	Data Document
}

// QueryResult is the ordered result of a query evaluation.
type QueryResult struct {
	Docs  []Snapshot
	Count int
}

// DocResult reports a single-document read. A missing document is not an
// error: Exists is false and Data is nil.
type DocResult struct {
	Exists bool
	Data   Document
}

// SnapshotHandler receives the full re-evaluated result set of a subscribed
// query on every store mutation.
type SnapshotHandler func(QueryResult)

type collectionData struct {
	docs  map[string]Document
	order []string
}

type subscription struct {
	query   QueryRef
	handler SnapshotHandler
}

// Store holds the entire dataset. All mutations are serialized on one mutex
// so no operation observes a half-applied write; subscription handlers run
// outside the lock.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	memoryOnly  bool
	data        map[string]*collectionData
	subs        map[uuid.UUID]*subscription

	// Saves run outside mu so slow media never block reads, but they must
	// not run concurrently or land out of order: saveMu serializes the
	// backend calls and savedSeq drops snapshots older than one already
	// written. saveSeq is assigned under mu, savedSeq guarded by saveMu.
	saveMu   sync.Mutex
	saveSeq  uint64
	savedSeq uint64
}

// NewStore loads the dataset from the persistence backend. A missing blob
// yields an empty store. An unparseable blob is reported once as
// ErrStoreUnavailable; the returned store is still usable, memory-only, so
// subsequent calls do not fail. Callers log the error and keep going.
func NewStore(persistence Persistence) (*Store, error) {
	s := &Store{
		persistence: persistence,
		data:        make(map[string]*collectionData),
		subs:        make(map[uuid.UUID]*subscription),
	}

	blob, ok, err := persistence.Load(DatasetKey)
	if err != nil {
		// Medium unavailable: swallowed, empty in-memory dataset.
		log.Printf("Store load failed, starting empty: %v", err)
		return s, nil
	}
	if !ok {
		return s, nil
	}

	var raw map[string]map[string]Document
	if err := json.Unmarshal(blob, &raw); err != nil {
		s.memoryOnly = true
		return s, fmt.Errorf("dataset blob unparseable: %w", ErrStoreUnavailable)
	}

	for name, docs := range raw {
		col := &collectionData{docs: make(map[string]Document, len(docs))}
		for id, doc := range docs {
			col.docs[id] = doc
			col.order = append(col.order, id)
		}
		// Document ids are ULIDs ordered by create time, so sorting
		// restores insertion order across restarts.
		sort.Strings(col.order)
		s.data[name] = col
	}
	return s, nil
}

func (s *Store) collection(name string) *collectionData {
	col, ok := s.data[name]
	if !ok {
		col = &collectionData{docs: make(map[string]Document)}
		s.data[name] = col
	}
	return col
}

func (s *Store) putLocked(collection, id string, doc Document) {
	col := s.collection(collection)
	if _, exists := col.docs[id]; !exists {
		col.order = append(col.order, id)
	}
	col.docs[id] = doc
}

func (s *Store) deleteLocked(collection, id string) {
	col, ok := s.data[collection]
	if !ok {
		return
	}
	if _, exists := col.docs[id]; !exists {
		return
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
}

// afterMutationLocked snapshots everything that must happen once the lock is
// released: one persistence save and one delivery per subscriber.
func (s *Store) afterMutationLocked() func() {
	blob, err := json.Marshal(s.exportLocked())
	if err != nil {
		blob = nil
		log.Printf("Dataset marshal error: %v", err)
	}

	type delivery struct {
		handler SnapshotHandler
		result  QueryResult
	}
	deliveries := make([]delivery, 0, len(s.subs))
	for _, sub := range s.subs {
		deliveries = append(deliveries, delivery{
			handler: sub.handler,
			result:  s.evaluateLocked(sub.query),
		})
	}

	memoryOnly := s.memoryOnly
	s.saveSeq++
	seq := s.saveSeq
	return func() {
		if blob != nil && !memoryOnly {
			s.saveMu.Lock()
			if seq > s.savedSeq {
				s.savedSeq = seq
				if err := s.persistence.Save(DatasetKey, blob); err != nil {
					// Best-effort: the snapshot survives in memory
					// for this process even when the medium
					// rejects it.
					log.Printf("Dataset save failed, keeping in memory: %v", err)
				}
			}
			s.saveMu.Unlock()
		}
		for _, d := range deliveries {
			d.handler(d.result)
		}
	}
}

func (s *Store) exportLocked() map[string]map[string]Document {
	out := make(map[string]map[string]Document, len(s.data))
	for name, col := range s.data {
		docs := make(map[string]Document, len(col.docs))
		for id, doc := range col.docs {
			docs[id] = doc
		}
		out[name] = docs
	}
	return out
}

// Subscribe evaluates the query immediately, delivers the result to the
// handler once, then redelivers the full re-evaluated result set after every
// subsequent store mutation, whether or not that mutation touched this
// query's collection. The returned stop function is idempotent.
//
// Handlers run outside the store lock, so when mutations are committed from
// multiple goroutines the deliveries for two commits (or the initial delivery
// and a concurrent commit's) may reach the handler out of commit order. Each
// delivery carries a complete result set and the next mutation redelivers, so
// handlers that only keep the latest set self-correct; handlers that need
// strict ordering must serialize mutators themselves.
func (s *Store) Subscribe(query QueryRef, handler SnapshotHandler) func() {
	s.mu.Lock()
	key := uuid.New()
	s.subs[key] = &subscription{query: query, handler: handler}
	initial := s.evaluateLocked(query)
	s.mu.Unlock()

	handler(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, key)
			s.mu.Unlock()
		})
	}
}
