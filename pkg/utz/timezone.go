package utz

import (
	"time"
)

// IsValid reports whether spec names a usable timezone. A *time.Location is
// trivially valid; a string is valid if it resolves in the IANA database.
func IsValid(spec any) bool {
	switch v := spec.(type) {
	case *time.Location:
		return v != nil
	case string:
		if v == "" {
			return false
		}
		_, err := time.LoadLocation(v)
		return err == nil
	}
	return false
}

// Validate returns a validation error when spec does not name a usable
// timezone. Intended as a field-level constraint hook at write time.
func Validate(spec any) error {
	if !IsValid(spec) {
		return ErrValidation("invalid timezone %q", spec)
	}
	return nil
}

// Location resolves spec to a concrete *time.Location.
func Location(spec any) (*time.Location, error) {
	switch v := spec.(type) {
	case *time.Location:
		if v != nil {
			return v, nil
		}
	case string:
		if v == "" {
			break
		}
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "invalid timezone " + v, Err: err}
		}
		return loc, nil
	}
	return nil, ErrValidation("invalid timezone %v", spec)
}
