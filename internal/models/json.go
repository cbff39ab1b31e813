package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Favorite is a number the user recharges often.
type Favorite struct {
	Nickname string `json:"nickname" validate:"required,max=50"`
	Number   string `json:"number" validate:"required,phone"`
	Operator string `json:"operator" validate:"required,max=50"`
}

// Favorites is an ordered favorites list stored as a jsonb column.
type Favorites []Favorite

// Value implements the driver.Valuer interface
func (f Favorites) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (f *Favorites) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*f = Favorites{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("favorites: unsupported scan type %T", value)
	}
	out := Favorites{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*f = out
	return nil
}

// MarshalJSON renders a nil list as [] rather than null.
func (f Favorites) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Favorite(f))
}

// Find returns the index of the favorite with the given number, or -1.
func (f Favorites) Find(number string) int {
	for i, fav := range f {
		if fav.Number == number {
			return i
		}
	}
	return -1
}

func (f Favorites) Clone() Favorites {
	out := make(Favorites, len(f))
	copy(out, f)
	return out
}
