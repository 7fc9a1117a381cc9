package keybinds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrDefault_MissingFile(t *testing.T) {
	r, err := LoadOrDefault(filepath.Join(t.TempDir(), "keybinds.json"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if action, _ := r.Match(ContextNormal, "r"); action != ActionGenerate {
		t.Errorf("Expected defaults, got %q for 'r'", action)
	}
}

func TestLoadOrDefault_JSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	content := `{
  "version": "1.0",
  // rebind generate
  "normal": {
    "generate": "enter, ctrl+g",
    "clear_preview": "",
  },
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if action, _ := r.Match(ContextNormal, "enter"); action != ActionGenerate {
		t.Errorf("Expected enter -> generate, got %q", action)
	}
	if r.HasBinding(ContextNormal, "r") {
		t.Error("Default 'r' should be replaced")
	}
	if r.HasBinding(ContextNormal, "X") {
		t.Error("Empty list should unbind clear_preview")
	}
	if action, _ := r.Match(ContextNormal, "c"); action != ActionCopyToClipboard {
		t.Error("Unlisted actions keep their defaults")
	}
}

func TestLoadOrDefault_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken json", `{"normal": `},
		{"unknown action", `{"normal": {"launch_rockets": "x"}}`},
		{"bare modifier", `{"normal": {"generate": "ctrl+"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keybinds.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadOrDefault(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestCreateExampleConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybinds.json")
	if err := CreateExampleConfig(path); err != nil {
		t.Fatalf("CreateExampleConfig failed: %v", err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("Example config does not load: %v", err)
	}

	defaults := NewDefaultRegistry()
	for _, context := range Contexts() {
		want := defaults.ListBindings(context)
		got := r.ListBindings(context)
		if len(got) != len(want) {
			t.Errorf("%s: expected %d bindings, got %d", context, len(want), len(got))
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: binding %d = %+v, want %+v", context, i, got[i], want[i])
			}
		}
	}
}

func TestParseKeys(t *testing.T) {
	got := ParseKeys(" a, ctrl+x ,,comma")
	want := []string{"a", "ctrl+x", ","}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Key %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
