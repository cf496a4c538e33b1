// internal/checkout/domain.go
package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteForm = errors.New("shipping details incomplete")
	ErrNotInCheckout  = errors.New("checkout view is not active")
	ErrUnknownField   = errors.New("unknown checkout field")
)

// IncompleteFormMessage is what the shopper sees when ErrIncompleteForm is returned.
const IncompleteFormMessage = "Please fill out all shipping details."

// Message returns the text a renderer shows for err.
func Message(err error) string {
	if errors.Is(err, ErrIncompleteForm) {
		return IncompleteFormMessage
	}
	return err.Error()
}

// Form holds the shipping details. Every field is free text.
type Form struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// Complete reports whether every field is non-empty. Whitespace counts as content.
func (f Form) Complete() bool {
	return f.Name != "" && f.Address != "" && f.City != "" && f.Pincode != ""
}

// Merge returns f with every non-empty field of patch copied over it.
func (f Form) Merge(patch Form) Form {
	if patch.Name != "" {
		f.Name = patch.Name
	}
	if patch.Address != "" {
		f.Address = patch.Address
	}
	if patch.City != "" {
		f.City = patch.City
	}
	if patch.Pincode != "" {
		f.Pincode = patch.Pincode
	}
	return f
}

type Field string

const (
	FieldName    Field = "name"
	FieldAddress Field = "address"
	FieldCity    Field = "city"
	FieldPincode Field = "pincode"
)

var Fields = []Field{FieldName, FieldAddress, FieldCity, FieldPincode}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// With returns a copy of f with field set to value.
func (f Form) With(field Field, value string) (Form, error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldAddress:
		f.Address = value
	case FieldCity:
		f.City = value
	case FieldPincode:
		f.Pincode = value
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return f, nil
}
