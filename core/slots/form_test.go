package slots

import (
	"errors"
	"slices"
	"testing"
)

func drinkForm() *Form {
	return New(
		Field{Key: "drinkType", Label: "drink type", Required: true},
		Field{Key: "size", Label: "size", Required: true},
		Field{Key: "milk", Label: "milk", Required: true},
		Field{Key: "extras", Label: "extras", List: true},
		Field{Key: "name", Label: "name", Required: true},
	)
}

func TestSetOverwritesNonBlankValues(t *testing.T) {
	f := drinkForm()

	if changed, _ := f.Set("size", "Small"); !changed {
		t.Fatalf("expected first set to change the form")
	}
	if changed, _ := f.Set("size", "   "); changed {
		t.Fatalf("expected blank set to be ignored")
	}
	_, _ = f.Set("size", "Large")

	if got := f.Value("size"); got != "Large" {
		t.Fatalf("got=%q want=%q", got, "Large")
	}
}

func TestAppendConcatenatesInCallOrder(t *testing.T) {
	f := drinkForm()

	_, _ = f.Append("extras", "caramel")
	_, _ = f.Append("extras", "", "vanilla", "caramel")

	want := []string{"caramel", "vanilla", "caramel"}
	if got := f.List("extras"); !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestMissingIsExactlyTheUnfilledRequiredFields(t *testing.T) {
	values := map[string]string{"drinkType": "Latte", "size": "Medium", "milk": "Oat", "name": "Ana"}

	tests := []struct {
		name   string
		filled []string
		want   []string
	}{
		{name: "nothing filled", filled: nil, want: []string{"drink type", "size", "milk", "name"}},
		{name: "only milk", filled: []string{"milk"}, want: []string{"drink type", "size", "name"}},
		{name: "two filled", filled: []string{"size", "name"}, want: []string{"drink type", "milk"}},
		{name: "only name missing", filled: []string{"drinkType", "size", "milk"}, want: []string{"name"}},
		{name: "only drink type missing", filled: []string{"name", "milk", "size"}, want: []string{"drink type"}},
		{name: "all filled", filled: []string{"drinkType", "size", "milk", "name"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := drinkForm()
			// optional list fields never count as missing
			_, _ = f.Append("extras", "caramel")
			for _, key := range tt.filled {
				if _, err := f.Set(key, values[key]); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			got := f.MissingLabels()
			if len(got) != len(tt.want) || (len(got) > 0 && !slices.Equal(got, tt.want)) {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
			if f.Complete() != (len(tt.want) == 0) {
				t.Fatalf("complete=%v with missing %v", f.Complete(), got)
			}
		})
	}
}

func TestUnknownAndMismatchedFields(t *testing.T) {
	f := drinkForm()

	if _, err := f.Set("temperature", "hot"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := f.Set("extras", "caramel"); err == nil {
		t.Fatalf("expected error setting a list field")
	}
	if _, err := f.Append("size", "Large"); err == nil {
		t.Fatalf("expected error appending to a scalar field")
	}
}

func TestDescribe(t *testing.T) {
	f := drinkForm()
	if got := f.Describe(); got != "nothing yet" {
		t.Fatalf("got=%q", got)
	}

	_, _ = f.Set("drinkType", "Latte")
	_, _ = f.Append("extras", "caramel", "vanilla")
	if got, want := f.Describe(), "drink type Latte; extras caramel, vanilla"; got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
