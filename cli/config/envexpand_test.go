package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("MW_SET", "hello")
	t.Setenv("MW_EMPTY", "")
	t.Setenv("MW_A", "alice")
	t.Setenv("MW_B", "bob")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set var", "value: ${MW_SET}", "value: hello"},
		{"empty var", "value: ${MW_EMPTY}", "value: "},
		{"default when unset", "value: ${MW_UNSET_12345:-fallback}", "value: fallback"},
		{"empty default when unset", "value: ${MW_UNSET_12345:-}", "value: "},
		{"default ignored when set", "value: ${MW_SET:-fallback}", "value: hello"},
		{"default when empty", "value: ${MW_EMPTY:-fallback}", "value: fallback"},
		{"multiple vars", "${MW_A}:${MW_B}", "alice:bob"},
		{"escaped reference", "value: $${MW_SET}", "value: ${MW_SET}"},
		{"escaped unset reference", "value: $${MW_UNSET_12345}", "value: ${MW_UNSET_12345}"},
		{"bare dollar untouched", "price: $5 and $MW_SET", "price: $5 and $MW_SET"},
		{"invalid name untouched", "${1BAD}", "${1BAD}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnv(tt.input)
			if err != nil {
				t.Fatalf("ExpandEnv(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandEnv_Undefined(t *testing.T) {
	t.Setenv("MW_SET", "hello")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "port: ${MW_UNSET_B}", []string{"MW_UNSET_B"}},
		{"sorted and deduplicated", "${MW_UNSET_B} ${MW_SET} ${MW_UNSET_A} ${MW_UNSET_B}", []string{"MW_UNSET_A", "MW_UNSET_B"}},
		{"defaulted refs not reported", "${MW_UNSET_A:-x} ${MW_UNSET_B}", []string{"MW_UNSET_B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnv(tt.input)
			if got != "" {
				t.Errorf("ExpandEnv(%q) = %q, want empty output on error", tt.input, got)
			}
			var undef *UndefinedEnvError
			if !errors.As(err, &undef) {
				t.Fatalf("ExpandEnv(%q) error = %v, want *UndefinedEnvError", tt.input, err)
			}
			if !reflect.DeepEqual(undef.Names, tt.want) {
				t.Errorf("Names = %v, want %v", undef.Names, tt.want)
			}
		})
	}
}
