package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration. Each section maps
// an action to a comma-separated list of keys; an empty list unbinds the
// action in that context.
type Config struct {
	Version   string            `json:"version"`
	Global    map[string]string `json:"global,omitempty"`
	Normal    map[string]string `json:"normal,omitempty"`
	Preview   map[string]string `json:"preview,omitempty"`
	TextInput map[string]string `json:"text_input,omitempty"`
	Editor    map[string]string `json:"editor,omitempty"`
	Help      map[string]string `json:"help,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:    c.Global,
		ContextNormal:    c.Normal,
		ContextPreview:   c.Preview,
		ContextTextInput: c.TextInput,
		ContextEditor:    c.Editor,
		ContextHelp:      c.Help,
	}
}

// LoadConfig loads keybinding configuration from a JSON file. Comments and
// trailing commas are accepted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseKeys splits a comma-separated key list. A literal comma is written
// as "comma".
func ParseKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		k = strings.TrimSpace(k)
		if k == "comma" {
			k = ","
		}
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry. For every action in
// the file the default keys of that context are replaced.
func ApplyConfig(registry *Registry, config *Config) error {
	var errs []error
	for context, bindings := range config.sections() {
		for actionStr, keyList := range bindings {
			action := Action(actionStr)
			if err := ValidateAction(actionStr); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", context, err))
				continue
			}
			keys := ParseKeys(keyList)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", context, action, err))
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err != nil {
		return registry, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}
	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}

// ExportConfig writes every binding of registry in the file format
func ExportConfig(registry *Registry) *Config {
	config := &Config{Version: "1.0"}
	for context := range config.sections() {
		grouped := make(map[string]string)
		for _, action := range registry.actionsIn(context) {
			keys := registry.keysIn(context, action)
			for i, k := range keys {
				if k == "," {
					keys[i] = "comma"
				}
			}
			grouped[string(action)] = strings.Join(keys, ",")
		}
		if len(grouped) == 0 {
			continue
		}
		switch context {
		case ContextGlobal:
			config.Global = grouped
		case ContextNormal:
			config.Normal = grouped
		case ContextPreview:
			config.Preview = grouped
		case ContextTextInput:
			config.TextInput = grouped
		case ContextEditor:
			config.Editor = grouped
		case ContextHelp:
			config.Help = grouped
		}
	}
	return config
}

func (r *Registry) actionsIn(context Context) []Action {
	seen := make(map[Action]bool)
	var actions []Action
	for _, b := range r.ListBindings(context) {
		if !seen[b.Action] {
			seen[b.Action] = true
			actions = append(actions, b.Action)
		}
	}
	return actions
}

func (r *Registry) keysIn(context Context, action Action) []string {
	var keys []string
	for key, act := range r.bindings[context] {
		if act == action {
			keys = append(keys, key)
		}
	}
	sortKeys(keys)
	return keys
}

// GetDefaultConfigPath returns the default path for keybinds.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".readmectl", "keybinds.json"), nil
}

// CreateExampleConfig writes the default bindings to path so they can be
// edited
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportConfig(NewDefaultRegistry()), path)
}
