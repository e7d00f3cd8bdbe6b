package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLintConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *LintConfig
		wantErr string
	}{
		{"defaults", NewLintConfig(), ""},
		{"json format", &LintConfig{Format: "json"}, ""},
		{"bad format", &LintConfig{Format: "xml"}, "invalid format"},
		{"negative debounce", &LintConfig{Format: "text", Debounce: -1}, "debounce"},
		{"known disabled rule", &LintConfig{Format: "text", Disable: []string{"max-file-size"}}, ""},
		{"unknown disabled rule", &LintConfig{Format: "text", Disable: []string{"no-such-rule"}}, "unknown lint rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
