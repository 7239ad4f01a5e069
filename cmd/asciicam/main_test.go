package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/junsooki/asciicam/internal/config"
)

func TestLoadConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name string
		args []string
		ok   bool
		want string
	}{
		{"defaults", nil, true, ""},
		{"missing config file", []string{"-config", missing}, false, "asciicam: load config"},
		{"invalid renderer", []string{"-renderer", "svg"}, false, "renderer must be canvas, html, or text"},
		{"help", []string{"-h"}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			parse := func() (*config.Config, error) { return config.Parse(tt.args) }
			cfg, ok := loadConfig(parse, &stderr)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (stderr %q)", ok, tt.ok, stderr.String())
			}
			if ok && cfg == nil {
				t.Fatal("config is nil")
			}
			if tt.want == "" && stderr.Len() != 0 {
				t.Errorf("stderr = %q, want empty", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.want)
			}
		})
	}
}
