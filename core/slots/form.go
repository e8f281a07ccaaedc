// Package slots tracks the details an assistant gathers across turns before
// it can finalize an order or lead.
package slots

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownField = errors.New("unknown field")

// Field declares one slot. Label is how the slot is named to the user.
type Field struct {
	Key      string
	Label    string
	Required bool
	// List slots accumulate values instead of replacing them.
	List bool
}

// Form holds the current value of each declared field. Scalar fields are
// replaced by non-empty values; list fields append in call order.
type Form struct {
	fields []Field
	values map[string]string
	lists  map[string][]string
}

func New(fields ...Field) *Form {
	f := &Form{
		fields: slices.Clone(fields),
		values: make(map[string]string, len(fields)),
		lists:  make(map[string][]string),
	}
	return f
}

// Set replaces a scalar field. Blank values leave the field unchanged and
// report false.
func (f *Form) Set(key, value string) (bool, error) {
	field, ok := f.field(key)
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	if field.List {
		return false, fmt.Errorf("field %q is a list", key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

// Append adds non-blank values to a list field and reports how many were
// added.
func (f *Form) Append(key string, values ...string) (int, error) {
	field, ok := f.field(key)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownField, key)
	}
	if !field.List {
		return 0, fmt.Errorf("field %q is not a list", key)
	}

	added := 0
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			f.lists[key] = append(f.lists[key], v)
			added++
		}
	}
	return added, nil
}

func (f *Form) Value(key string) string {
	return f.values[key]
}

func (f *Form) List(key string) []string {
	return slices.Clone(f.lists[key])
}

func (f *Form) Has(key string) bool {
	if f.values[key] != "" {
		return true
	}
	return len(f.lists[key]) > 0
}

// Missing returns the required fields that are still empty, in declaration
// order.
func (f *Form) Missing() []Field {
	var missing []Field
	for _, field := range f.fields {
		if field.Required && !f.Has(field.Key) {
			missing = append(missing, field)
		}
	}
	return missing
}

func (f *Form) MissingLabels() []string {
	missing := f.Missing()
	labels := make([]string, 0, len(missing))
	for _, field := range missing {
		labels = append(labels, field.Label)
	}
	return labels
}

func (f *Form) Complete() bool {
	return len(f.Missing()) == 0
}

// Describe lists the filled fields as "label value" pairs in declaration
// order.
func (f *Form) Describe() string {
	var parts []string
	for _, field := range f.fields {
		switch {
		case field.List && len(f.lists[field.Key]) > 0:
			parts = append(parts, field.Label+" "+strings.Join(f.lists[field.Key], ", "))
		case !field.List && f.values[field.Key] != "":
			parts = append(parts, field.Label+" "+f.values[field.Key])
		}
	}
	if len(parts) == 0 {
		return "nothing yet"
	}
	return strings.Join(parts, "; ")
}

func (f *Form) field(key string) (Field, bool) {
	for _, field := range f.fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}
