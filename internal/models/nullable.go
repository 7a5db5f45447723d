package models

import (
	"bytes"
	"encoding/json"
	"time"
)

var jsonNull = []byte("null")

// NullableInt distinguishes an absent field (Set=false) from an explicit null (Set=true, Value=nil)
type NullableInt struct {
	Set   bool
	Value *int64
}

// NewNullableInt returns a set NullableInt holding v
func NewNullableInt(v int64) NullableInt {
	return NullableInt{Set: true, Value: &v}
}

// NullInt returns a set NullableInt holding an explicit null
func NullInt() NullableInt {
	return NullableInt{Set: true}
}

// UnmarshalJSON marks the field as present, including for a literal null
func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return jsonNull, nil
	}
	return json.Marshal(*n.Value)
}

// NullableString is the string counterpart of NullableInt
type NullableString struct {
	Set   bool
	Value *string
}

// NewNullableString returns a set NullableString; an empty s is stored as null
func NewNullableString(s string) NullableString {
	if s == "" {
		return NullableString{Set: true}
	}
	return NullableString{Set: true, Value: &s}
}

// NullableTime is the time counterpart of NullableInt
type NullableTime struct {
	Set   bool
	Value *time.Time
}

// NewNullableTime returns a set NullableTime holding t
func NewNullableTime(t time.Time) NullableTime {
	return NullableTime{Set: true, Value: &t}
}

// NullTime returns a set NullableTime holding an explicit null
func NullTime() NullableTime {
	return NullableTime{Set: true}
}
