// Package config loads and saves opsync's JSON5 configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Defaults applied when neither a flag, an environment variable nor the file sets a value.
const (
	DefaultRemote  = "origin"
	DefaultEnvFile = ".env"
)

var outputModes = []string{"json", "plain", "rich", "auto"}

// Config holds the CLI configuration
type Config struct {
	Vault           string `json:"vault,omitempty"`
	Remote          string `json:"remote,omitempty"`
	EnvFile         string `json:"env_file,omitempty"`
	Editor          string `json:"editor,omitempty"`
	GraphQLEndpoint string `json:"graphql_endpoint,omitempty"`
	DefaultOutput   string `json:"default_output,omitempty"`
	OpPath          string `json:"op_path,omitempty"`
	FlyPath         string `json:"fly_path,omitempty"`

	path string
}

// Load reads config from the XDG path, returning defaults if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. Save writes back to the same path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config is saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save writes the config as indented JSON (valid JSON5) with owner-only permissions.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Keys returns the settable keys in declaration order.
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := jsonKey(t.Field(i)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	field, err := c.field(key)
	if err != nil {
		return "", err
	}
	return field.String(), nil
}

// Set validates and sets a config value by key name, then saves
func (c *Config) Set(key, value string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}

	old := field.String()
	field.SetString(value)
	if err := c.validate(); err != nil {
		field.SetString(old)
		return err
	}
	return c.Save()
}

// Unset clears a config value and saves
func (c *Config) Unset(key string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	field.SetString("")
	return c.Save()
}

// RemoteOrDefault returns the git remote used for labels.
func (c *Config) RemoteOrDefault() string {
	if c.Remote != "" {
		return c.Remote
	}
	return DefaultRemote
}

// EnvFileOrDefault returns the env file used when a vault item names none.
func (c *Config) EnvFileOrDefault() string {
	if c.EnvFile != "" {
		return c.EnvFile
	}
	return DefaultEnvFile
}

func (c *Config) validate() error {
	if c.DefaultOutput != "" && !slices.Contains(outputModes, c.DefaultOutput) {
		return fmt.Errorf("default_output must be one of %s, got %q", strings.Join(outputModes, ", "), c.DefaultOutput)
	}
	if strings.ContainsAny(c.Remote, " \t/") {
		return fmt.Errorf("remote must be a git remote name, got %q", c.Remote)
	}
	return nil
}

func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonKey(t.Field(i)) == key {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys(), ", "))
}

func jsonKey(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
