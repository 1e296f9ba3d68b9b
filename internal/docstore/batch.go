package docstore

import (
	"context"
	"fmt"
)

type batchOpKind int

const (
	batchSet batchOpKind = iota
	batchUpdate
	batchDelete
)

type batchOp struct {
	kind batchOpKind
	ref  DocRef
	data Document
}

// WriteBatch accumulates set/update/delete operations and applies them in one
// pass over the store. The whole batch triggers a single persistence save and
// one subscription delivery pass, which is the closest thing the store has to
// a transaction.
type WriteBatch struct {
	store *Store
	ops   []batchOp
	err   error
}

// NewBatch starts an empty batch.
func (s *Store) NewBatch() *WriteBatch {
	return &WriteBatch{store: s}
}

func (b *WriteBatch) Set(ref DocRef, data Document) *WriteBatch {
	if b.err == nil {
		b.err = validateRef(ref)
	}
	b.ops = append(b.ops, batchOp{kind: batchSet, ref: ref, data: cloneDocument(data)})
	return b
}

func (b *WriteBatch) Update(ref DocRef, partial Document) *WriteBatch {
	if b.err == nil {
		b.err = validateRef(ref)
	}
	b.ops = append(b.ops, batchOp{kind: batchUpdate, ref: ref, data: cloneDocument(partial)})
	return b
}

func (b *WriteBatch) Delete(ref DocRef) *WriteBatch {
	if b.err == nil {
		b.err = validateRef(ref)
	}
	b.ops = append(b.ops, batchOp{kind: batchDelete, ref: ref})
	return b
}

// Commit applies every accumulated operation, then runs one save and one
// subscription delivery pass. Update targets are checked up front (a set or
// another update earlier in the batch counts as existing), so a batch with a
// missing target fails with ErrNotFound before any sub-operation is applied.
func (b *WriteBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.err != nil {
		return b.err
	}

	s := b.store
	s.mu.Lock()

	created := make(map[DocRef]bool, len(b.ops))
	for _, op := range b.ops {
		switch op.kind {
		case batchSet:
			created[op.ref] = true
		case batchDelete:
			delete(created, op.ref)
		case batchUpdate:
			if created[op.ref] {
				continue
			}
			col, ok := s.data[op.ref.Collection]
			if !ok {
				s.mu.Unlock()
				return fmt.Errorf("batch update %s/%s: %w", op.ref.Collection, op.ref.ID, ErrNotFound)
			}
			if _, ok := col.docs[op.ref.ID]; !ok {
				s.mu.Unlock()
				return fmt.Errorf("batch update %s/%s: %w", op.ref.Collection, op.ref.ID, ErrNotFound)
			}
		}
	}

	for _, op := range b.ops {
		switch op.kind {
		case batchSet:
			s.putLocked(op.ref.Collection, op.ref.ID, op.data)
		case batchUpdate:
			if doc, ok := s.collection(op.ref.Collection).docs[op.ref.ID]; ok {
				mergeFields(doc, op.data)
			}
		case batchDelete:
			s.deleteLocked(op.ref.Collection, op.ref.ID)
		}
	}

	done := s.afterMutationLocked()
	s.mu.Unlock()

	done()
	return nil
}
