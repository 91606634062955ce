package dto

import "encoding/json"

// Optional distinguishes "field omitted" from "field explicitly null" in
// partial-update payloads: Set is false when the key was absent, and Value is
// nil when the client sent an explicit null to clear the field.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Cleared reports whether the payload explicitly asked to clear the field.
func (o Optional[T]) Cleared() bool {
	return o.Set && o.Value == nil
}
