//go:build !windows

package main

import (
	"slices"
	"testing"
)

func TestPprofAddr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"0", ""},
		{"no", ""},
		{" FALSE ", ""},
		{"1", "127.0.0.1:6060"},
		{"true", "127.0.0.1:6060"},
		{"7070", "127.0.0.1:7070"},
		{"0.0.0.0:9000", "0.0.0.0:9000"},
	}
	for _, tt := range tests {
		if got := pprofAddr(tt.raw); got != tt.want {
			t.Fatalf("pprofAddr(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDefaultArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		stdinTTY  bool
		stdoutTTY bool
		want      []string
	}{
		{"piped into terminal", nil, false, true, []string{"view"}},
		{"interactive", nil, true, true, nil},
		{"piped to pipe", nil, false, false, nil},
		{"explicit command", []string{"extract", "--all"}, false, true, []string{"extract", "--all"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultArgs(tt.args, tt.stdinTTY, tt.stdoutTTY); !slices.Equal(got, tt.want) {
				t.Fatalf("defaultArgs = %v, want %v", got, tt.want)
			}
		})
	}
}
