package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores any value as a JSON text column.
type JSON[T any] struct {
	Val T
}

// NewJSON wraps v for storage.
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Val: v}
}

// GormDataType keeps gorm from treating the wrapper as an association.
func (JSON[T]) GormDataType() string { return "text" }

func (j *JSON[T]) Scan(src any) error {
	var zero T
	switch v := src.(type) {
	case nil:
		j.Val = zero
		return nil
	case string:
		return j.unmarshal([]byte(v))
	case []byte:
		return j.unmarshal(v)
	default:
		return fmt.Errorf("JSON: unsupported Scan type %T", src)
	}
}

func (j JSON[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Val)
	if err != nil {
		return nil, fmt.Errorf("JSON: marshal: %w", err)
	}
	return string(raw), nil
}

func (j *JSON[T]) unmarshal(raw []byte) error {
	var out T
	if len(raw) == 0 {
		j.Val = out
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSON: unmarshal: %w", err)
	}
	j.Val = out
	return nil
}
