package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
)

type incrementSentinel struct {
	delta int64
}

// Increment returns a sentinel value for UpdateDoc: instead of overwriting
// the field it adds n to the current numeric value, treating a missing value
// as 0. This is the store's only non-literal merge semantic and the primitive
// behind quantity decrements.
func Increment(n int64) any {
	return incrementSentinel{delta: n}
}

func validateRef(ref DocRef) error {
	if ref.Collection == "" || ref.ID == "" {
		return fmt.Errorf("doc %q/%q: %w", ref.Collection, ref.ID, ErrInvalidReference)
	}
	return nil
}

// GetDoc reads one document. A missing document is Exists=false, not an error.
func (s *Store) GetDoc(ctx context.Context, ref DocRef) (DocResult, error) {
	if err := ctx.Err(); err != nil {
		return DocResult{}, err
	}
	if err := validateRef(ref); err != nil {
		return DocResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.data[ref.Collection]
	if !ok {
		return DocResult{}, nil
	}
	doc, ok := col.docs[ref.ID]
	if !ok {
		return DocResult{}, nil
	}
	return DocResult{Exists: true, Data: cloneDocument(doc)}, nil
}

// GetDocs evaluates the query: all equality filters are ANDed, then at most
// one order clause is applied as a stable sort (ties keep insertion order).
// A missing collection yields an empty result.
func (s *Store) GetDocs(ctx context.Context, query QueryRef) (QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return QueryResult{}, err
	}
	if query.Collection == "" {
		return QueryResult{}, fmt.Errorf("query collection: %w", ErrInvalidReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluateLocked(query), nil
}

func (s *Store) evaluateLocked(query QueryRef) QueryResult {
	col, ok := s.data[query.Collection]
	if !ok {
		return QueryResult{}
	}

	var docs []Snapshot
	for _, id := range col.order {
		doc := col.docs[id]
		if matchesFilters(doc, query.Filters) {
			docs = append(docs, Snapshot{ID: id, Data: cloneDocument(doc)})
		}
	}

	if query.Order != nil {
		field, dir := query.Order.Field, query.Order.Direction
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i].Data[field], docs[j].Data[field])
			if dir == Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return QueryResult{Docs: docs, Count: len(docs)}
}

// SetDoc is an unconditional upsert replacing the whole document. The
// collection is created when absent.
func (s *Store) SetDoc(ctx context.Context, ref DocRef, data Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRef(ref); err != nil {
		return err
	}

	s.mu.Lock()
	s.putLocked(ref.Collection, ref.ID, cloneDocument(data))
	done := s.afterMutationLocked()
	s.mu.Unlock()

	done()
	return nil
}

// AddDoc stores the document under a fresh ULID. Ids from the same process
// are ordered by create time, which the store relies on to keep insertion
// order stable across restarts.
func (s *Store) AddDoc(ctx context.Context, collection CollectionRef, data Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if collection.Name == "" {
		return "", fmt.Errorf("add collection: %w", ErrInvalidReference)
	}

	id := ulid.Make().String()
	s.mu.Lock()
	s.putLocked(collection.Name, id, cloneDocument(data))
	done := s.afterMutationLocked()
	s.mu.Unlock()

	done()
	return id, nil
}

// UpdateDoc merges the given fields into an existing document and fails with
// ErrNotFound when the target does not exist. Increment sentinel values add
// to the current numeric field instead of replacing it.
func (s *Store) UpdateDoc(ctx context.Context, ref DocRef, partial Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRef(ref); err != nil {
		return err
	}

	s.mu.Lock()
	col, ok := s.data[ref.Collection]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %s/%s: %w", ref.Collection, ref.ID, ErrNotFound)
	}
	doc, ok := col.docs[ref.ID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %s/%s: %w", ref.Collection, ref.ID, ErrNotFound)
	}
	mergeFields(doc, partial)
	done := s.afterMutationLocked()
	s.mu.Unlock()

	done()
	return nil
}

// DeleteDoc removes the document, a no-op when absent.
func (s *Store) DeleteDoc(ctx context.Context, ref DocRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRef(ref); err != nil {
		return err
	}

	s.mu.Lock()
	s.deleteLocked(ref.Collection, ref.ID)
	done := s.afterMutationLocked()
	s.mu.Unlock()

	done()
	return nil
}

func mergeFields(doc Document, partial Document) {
	for field, value := range partial {
		if inc, ok := value.(incrementSentinel); ok {
			doc[field] = asInt64(doc[field]) + inc.delta
			continue
		}
		doc[field] = cloneValue(value)
	}
}

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	default:
		return 0
	}
}

func matchesFilters(doc Document, filters []WhereClause) bool {
	for _, f := range filters {
		if f.Operator != "==" {
			return false
		}
		if !valuesEqual(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

// valuesEqual compares with numeric widening so an int written in-process
// still matches a float64 reloaded from the JSON blob.
func valuesEqual(a, b any) bool {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af == bf
	}
	switch a.(type) {
	case nil, string, bool:
		return a == b
	}
	return false
}

func compareValues(a, b any) int {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	return 0
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func cloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for field, value := range doc {
		out[field] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return cloneDocument(v)
	case map[string]any:
		return map[string]any(cloneDocument(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
