package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds the CLI configuration
type Config struct {
	Namespace     string `json:"namespace,omitempty"`
	Backend       string `json:"backend,omitempty"`
	FileDir       string `json:"file_dir,omitempty"`
	DisableSync   bool   `json:"disable_sync,omitempty"`
	DefaultOutput string `json:"default_output,omitempty"`

	path string
}

// ValidBackends lists the accepted values of the backend key.
var ValidBackends = []string{"auto", "keychain", "keyring", "file"}

// ValidOutputs lists the accepted values of the default_output key.
var ValidOutputs = []string{"auto", "plain", "rich", "json"}

// Load reads config from the XDG path, returns defaults if the file doesn't exist
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path, returns defaults if the file doesn't exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Empty fields mean "not set" and are resolved by the CLI
			return &Config{path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Config{path: path}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Path returns the file this config is read from and saved to
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save writes the config under an exclusive file lock
func (c *Config) Save() error {
	path := c.Path()

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON (not JSON5 for writing - JSON is valid JSON5)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return withLock(path, func() error {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		return nil
	})
}

// Keys returns the config key names in declaration order
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys = append(keys, name)
		}
	}
	return keys
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// field finds the struct field backing a config key
func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" && name == key {
			return v.Field(i), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("unknown config key: %s", key)
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", f.Interface()), nil
}

// Set validates and sets a config value by key name and saves
func (c *Config) Set(key, value string) error {
	if err := c.Validate(key, value); err != nil {
		return err
	}

	f, _ := c.field(key)
	if f.Kind() == reflect.Bool {
		b, _ := strconv.ParseBool(value)
		f.SetBool(b)
	} else {
		f.SetString(value)
	}

	return c.Save()
}

// Unset sets a config value to its zero value and saves
func (c *Config) Unset(key string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	f.Set(reflect.Zero(f.Type()))
	return c.Save()
}

// Validate checks that value is acceptable for key without changing anything
func (c *Config) Validate(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}

	if f.Kind() == reflect.Bool {
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid value for %s: %q is not a boolean", key, value)
		}
		return nil
	}

	var allowed []string
	switch key {
	case "backend":
		allowed = ValidBackends
	case "default_output":
		allowed = ValidOutputs
	default:
		return nil
	}

	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s. Valid values: %s", key, value, strings.Join(allowed, ", "))
}
