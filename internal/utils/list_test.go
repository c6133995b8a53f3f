package utils

import (
	"reflect"
	"testing"
)

func TestCleanList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"blank entries", []string{"", "  "}, []string{}},
		{"trimmed", []string{" i-1 ", "i-2"}, []string{"i-1", "i-2"}},
		{"comma joined", []string{"i-1, i-2,,"}, []string{"i-1", "i-2"}},
	}

	for _, tt := range tests {
		got := CleanList(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: CleanList(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"arn:aws:rds:eu-west-1:123456789012:db:orders-db", "orders-db"},
		{"arn:aws:ecs:us-east-1:123456:task/my-cluster/abc123", "abc123"},
		{"plain-string", "plain-string"},
		{"", ""},
	}

	for _, tt := range tests {
		got := ShortName(tt.input)
		if got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
