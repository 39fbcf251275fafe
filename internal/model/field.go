package model

import (
	"encoding/json"
)

// Field is an optional JSON input value that tells apart an absent key (Set == false),
// an explicit null (Set == true, Value == nil) and a concrete value.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Present reports whether the key was supplied with a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && f.Value != nil
}

// SetField builds a Field holding v, for callers constructing input in code.
func SetField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// NullField builds a Field that was explicitly sent as null.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}
