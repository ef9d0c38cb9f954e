package models

import (
	"reflect"
	"testing"
)

func TestNormalizeCoAuthors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "drops empty and trailing entries",
			raw:  "Jane Doe, , John Smith,",
			want: []string{"Jane Doe", "John Smith"},
		},
		{
			name: "trims surrounding whitespace",
			raw:  "  Ana Silva ,Carlos Souza  ",
			want: []string{"Ana Silva", "Carlos Souza"},
		},
		{
			name: "empty input yields empty list",
			raw:  "",
			want: []string{},
		},
		{
			name: "only separators yields empty list",
			raw:  " , ,, ",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeCoAuthors(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeCoAuthors(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestIsValidAbstractStatus(t *testing.T) {
	valid := []string{"draft", "submitted", "reviewing", "approved", "rejected", "type-change", "final-version"}
	for _, s := range valid {
		if _, ok := IsValidAbstractStatus(s); !ok {
			t.Errorf("expected %q to be a valid status", s)
		}
	}

	if _, ok := IsValidAbstractStatus("REVIEWING"); !ok {
		t.Error("status validation should be case-insensitive")
	}

	for _, s := range []string{"", "pending", "final", "approved "} {
		if _, ok := IsValidAbstractStatus(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestAbstractTypeFlipped(t *testing.T) {
	if AbstractTypePoster.Flipped() != AbstractTypeOral {
		t.Error("poster should flip to oral")
	}
	if AbstractTypeOral.Flipped() != AbstractTypePoster {
		t.Error("oral should flip to poster")
	}
}
