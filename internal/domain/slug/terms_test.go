package slug

import (
	"reflect"
	"testing"
)

func TestSearchTerms(t *testing.T) {
	m := DefaultMapping()
	tests := []struct {
		key  string
		want []string
	}{
		{"", nil},
		{"tv", []string{"televisions", "tv"}},
		{"manchester", []string{"manchester"}},
		{"washing machines in leeds", []string{"leeds", "machines", "washing"}},
		{"washing machine", []string{"machine", "washing", "washing-machines"}},
		{"oven in york", []string{"built-in-ovens", "oven", "york"}},
		{"manchester lg", []string{"lg", "manchester"}},
		{"hp printer at leeds", []string{"hp", "leeds", "printer"}},
		{"a b leeds", []string{"leeds"}},
	}
	for _, tc := range tests {
		got := m.SearchTerms(tc.key)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SearchTerms(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestKeepToken(t *testing.T) {
	for tok, want := range map[string]bool{
		"leeds": true, "lg": true, "hp": true, "in": false, "of": false, "a": false, "": false,
	} {
		if got := keepToken(tok); got != want {
			t.Errorf("keepToken(%q) = %v, want %v", tok, got, want)
		}
	}
}
