package types

import (
	"bytes"
	"encoding/json"
)

// Patch distinguishes an absent JSON field from an explicit null in
// partial updates. Set is true whenever the key was present; Value is nil
// when the client sent null.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// PatchOf returns a Patch that sets the field to v.
func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// Clear returns a Patch that nulls the field.
func Clear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	p.Set = true
	if bytes.Equal(trimmed, []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}
