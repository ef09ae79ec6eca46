// Package patch models partial updates. A Field is either absent, in which
// case it is never written, or set to a value, which may be the zero value.
package patch

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

type Field[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// UnmarshalJSON treats a JSON null like a missing key.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		f.Value, f.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Set = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ValidationValue exposes the inner value to the validator, nil when unset.
func (f Field[T]) ValidationValue() interface{} {
	if !f.Set {
		return nil
	}
	return f.Value
}

// Put writes f into set under key when f is set.
func Put[T any](set bson.M, key string, f Field[T]) {
	if f.Set {
		set[key] = f.Value
	}
}

// PutWith is Put with a transform applied to the value first.
func PutWith[T any](set bson.M, key string, f Field[T], fn func(T) T) {
	if f.Set {
		set[key] = fn(f.Value)
	}
}
