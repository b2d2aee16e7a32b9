package domain

import (
	"database/sql"
	"encoding/json"
)

// NullString is a nullable text column that marshals as a plain JSON string,
// or null when unset, instead of the {"String","Valid"} pair sql.NullString
// would produce.
type NullString struct {
	sql.NullString
}

// NewNullString returns a valid NullString for a non-empty value and a null
// one otherwise.
func NewNullString(value string) NullString {
	if value == "" {
		return NullString{}
	}
	return NullString{sql.NullString{String: value, Valid: true}}
}

func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.String)
}

func (s *NullString) UnmarshalJSON(data []byte) error {
	var value *string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == nil {
		*s = NullString{}
		return nil
	}
	*s = NewNullString(*value)
	return nil
}
