package keybinds

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "invalid error",
			err:      ValidationError{Type: "invalid", Context: ContextNormal, Key: "x", Message: "unknown action 'boom'"},
			expected: "[invalid] x in context 'normal': unknown action 'boom'",
		},
		{
			name:     "warning",
			err:      ValidationError{Type: "warning", Context: ContextPreview, Key: "c", Message: "shadows normal binding"},
			expected: "[warning] c in context 'preview': shadows normal binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	empty := &ValidationResult{}
	if empty.String() != "No issues found" {
		t.Errorf("Unexpected summary %q", empty.String())
	}

	result := &ValidationResult{
		Errors:   []ValidationError{{Type: "invalid", Context: ContextNormal, Key: "x", Message: "bad"}},
		Warnings: []ValidationError{{Type: "warning", Context: ContextNormal, Key: "y", Message: "meh"}},
	}
	s := result.String()
	if !strings.Contains(s, "Errors (1)") || !strings.Contains(s, "Warnings (1)") {
		t.Errorf("Unexpected summary %q", s)
	}
}

func TestValidateRegistry_Defaults(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())
	if result.HasErrors() || result.HasWarnings() {
		t.Errorf("Default bindings should be clean:\n%s", result.String())
	}
}

func TestValidateRegistry(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(r *Registry)
		wantErrors   int
		wantWarnings int
	}{
		{
			name:       "unknown action",
			setup:      func(r *Registry) { r.Register(ContextNormal, "z", "launch_rockets") },
			wantErrors: 1,
		},
		{
			name:         "reserved key rebound",
			setup:        func(r *Registry) { r.Register(ContextNormal, "ctrl+c", ActionCopyToClipboard) },
			wantWarnings: 2, // reserved, and shadows global
		},
		{
			name:         "preview shadows normal",
			setup:        func(r *Registry) { r.Register(ContextPreview, "r", ActionNavigateUp) },
			wantWarnings: 1,
		},
		{
			name:       "generate unbound",
			setup:      func(r *Registry) { r.Unbind(ContextNormal, ActionGenerate) },
			wantErrors: 1,
		},
		{
			name:       "editor cannot be left",
			setup:      func(r *Registry) { r.Unbind(ContextEditor, ActionEditorDone) },
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDefaultRegistry()
			tt.setup(r)
			result := NewValidator().ValidateRegistry(r)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %d:\n%s", tt.wantErrors, len(result.Errors), result.String())
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("Expected %d warnings, got %d:\n%s", tt.wantWarnings, len(result.Warnings), result.String())
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	v := NewValidator()

	ok := v.ValidateConfig(&Config{Normal: map[string]string{"generate": "enter"}})
	if ok.HasErrors() {
		t.Errorf("Unexpected errors:\n%s", ok.String())
	}

	bad := v.ValidateConfig(&Config{Normal: map[string]string{"nope": "x"}})
	if !bad.HasErrors() {
		t.Error("Expected unknown action to be reported")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"a", false},
		{"ctrl+s", false},
		{"shift+tab", false},
		{"", true},
		{"ctrl+", true},
		{"alt+", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := ValidateKey(tt.key); (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	if err := ValidateAction(""); err == nil {
		t.Error("Expected error for empty action")
	}
	if err := ValidateAction("generate"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateAction("toggle_section_charts"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateAction("execute"); err == nil {
		t.Error("Expected error for unknown action")
	}
}
