package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	var s sample
	if err := Unmarshal([]byte("name: docfold\ncount: 3\n"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Name != "docfold" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestUnmarshal_InputValidation(t *testing.T) {
	t.Parallel()

	var s sample

	if err := Unmarshal(nil, &s); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data: err = %v, want ErrNilData", err)
	}
	if err := Unmarshal([]byte{}, &s); !errors.Is(err, ErrNilData) {
		t.Errorf("empty data: err = %v, want ErrNilData", err)
	}
	if err := Unmarshal([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("nil dest: err = %v, want ErrNilDestination", err)
	}

	huge := []byte("name: " + strings.Repeat("x", MaxInputSize))
	if err := Unmarshal(huge, &s); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("oversized: err = %v, want ErrInputTooLarge", err)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var s sample
	if err := UnmarshalStrict([]byte("name: x\nbogus: y\n"), &s); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := UnmarshalStrict([]byte("name: x\n"), &s); err != nil {
		t.Errorf("valid input: err = %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	in := sample{Name: "docfold", Count: 7}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
