package models

// List is a decoded collection. Items holds typed values; when the payload did
// not match the typed shape, Loose holds the untyped objects instead.
type List[T any] struct {
	Items []T
	Loose []map[string]any
}

func (l List[T]) Len() int {
	if l.Loose != nil {
		return len(l.Loose)
	}
	return len(l.Items)
}

func (l List[T]) IsLoose() bool { return l.Loose != nil }

// Object is the single-resource counterpart of List.
type Object[T any] struct {
	Value T
	Loose map[string]any
}

func (o Object[T]) IsLoose() bool { return o.Loose != nil }
