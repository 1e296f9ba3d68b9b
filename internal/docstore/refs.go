package docstore

import "fmt"

// DocRef identifies a single document inside a collection.
type DocRef struct {
	Collection string
	ID         string
}

// CollectionRef identifies a whole collection.
type CollectionRef struct {
	Name string
}

// Direction orders a sorted query result.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// WhereClause is an equality filter over a single field.
type WhereClause struct {
	Field    string
	Operator string
	Value    any
}

// OrderClause sorts the result set by a single field.
type OrderClause struct {
	Field     string
	Direction Direction
}

// QueryRef composes a collection with filters and at most one sort clause.
// It is inert until handed to GetDocs or Subscribe.
type QueryRef struct {
	Collection string
	Filters    []WhereClause
	Order      *OrderClause
}

// Doc builds a reference to a single document.
func Doc(collection, id string) (DocRef, error) {
	if collection == "" || id == "" {
		return DocRef{}, fmt.Errorf("doc %q/%q: %w", collection, id, ErrInvalidReference)
	}
	return DocRef{Collection: collection, ID: id}, nil
}

// Collection builds a reference to a collection.
func Collection(name string) CollectionRef {
	return CollectionRef{Name: name}
}

// Where builds an equality filter. Only the "==" operator is supported.
func Where(field, operator string, value any) WhereClause {
	return WhereClause{Field: field, Operator: operator, Value: value}
}

// OrderBy builds a sort clause.
func OrderBy(field string, direction Direction) OrderClause {
	return OrderClause{Field: field, Direction: direction}
}

// NewQuery composes a collection reference with where and order clauses.
func NewQuery(collection CollectionRef, clauses ...any) QueryRef {
	q := QueryRef{Collection: collection.Name}
	for _, clause := range clauses {
		switch c := clause.(type) {
		case WhereClause:
			q.Filters = append(q.Filters, c)
		case OrderClause:
			order := c
			q.Order = &order
		}
	}
	return q
}
