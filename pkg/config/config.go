// Package config reads form builder settings from JSON or YAML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Defaults applied by Normalize.
const (
	DefaultContainer   = "#inputs"
	DefaultSetupPanel  = "#setup"
	DefaultTitle       = "Form"
	DefaultHTTPTimeout = 10 * time.Second
)

// Config holds the settings shared by the CLI and embedding hosts.
type Config struct {
	// Container and SetupPanel are CSS selectors in the host document.
	Container  string `json:"container" yaml:"container"`
	SetupPanel string `json:"setupPanel" yaml:"setupPanel"`
	// Document is the host page; empty means a generated blank page.
	Document string `json:"document" yaml:"document"`
	// Sources are template documents, file paths or http(s) URLs, loaded
	// after the bundled templates.
	Sources []string `json:"sources" yaml:"sources"`
	// SkipDefaults leaves the bundled templates out.
	SkipDefaults bool     `json:"skipDefaults" yaml:"skipDefaults"`
	Sanitize     bool     `json:"sanitize" yaml:"sanitize"`
	HTTPTimeout  Duration `json:"httpTimeout" yaml:"httpTimeout"`
	Title        string   `json:"title" yaml:"title"`
	Output       string   `json:"output" yaml:"output"`
}

// Duration accepts "1m30s" style strings, or a number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
		return nil
	case string:
		return d.parse(v)
	case nil:
		*d = 0
		return nil
	default:
		return fmt.Errorf("config: invalid duration %s", string(data))
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var seconds float64
	if err := node.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("config: invalid duration at line %d", node.Line)
	}
	return d.parse(text)
}

func (d *Duration) parse(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns a Config with every default applied.
func Default() Config {
	cfg := Config{}
	cfg.Normalize()
	return cfg
}

// Load reads and normalizes the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data as JSON, falling back to YAML, then normalizes and
// validates the result.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Config{}
		if yamlErr := yaml.Unmarshal(data, &cfg); yamlErr != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

// Normalize trims values, drops empty sources and fills defaults.
func (c *Config) Normalize() {
	c.Container = strings.TrimSpace(c.Container)
	if c.Container == "" {
		c.Container = DefaultContainer
	}
	c.SetupPanel = strings.TrimSpace(c.SetupPanel)
	if c.SetupPanel == "" {
		c.SetupPanel = DefaultSetupPanel
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = Duration(DefaultHTTPTimeout)
	}
	c.Document = strings.TrimSpace(c.Document)
	c.Output = strings.TrimSpace(c.Output)

	sources := c.Sources[:0]
	for _, src := range c.Sources {
		if src = strings.TrimSpace(src); src != "" {
			sources = append(sources, src)
		}
	}
	c.Sources = sources
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.HTTPTimeout < 0 {
		return errors.New("httpTimeout must not be negative")
	}
	return nil
}

// HasRemoteSources reports whether any source is fetched over HTTP.
func (c Config) HasRemoteSources() bool {
	for _, src := range c.Sources {
		if isURL(src) {
			return true
		}
	}
	return false
}

// TemplateSources returns the sources to load, the bundled document first.
func (c Config) TemplateSources() []templates.Source {
	var out []templates.Source
	if !c.SkipDefaults {
		out = append(out, templates.DefaultSource())
	}
	for _, src := range c.Sources {
		out = append(out, SourceFor(src))
	}
	return out
}

// SourceFor maps an http(s) URL to a URL source and anything else to a file
// source.
func SourceFor(raw string) templates.Source {
	if isURL(raw) {
		return templates.SourceFromURL(raw)
	}
	return templates.SourceFromFile(raw)
}

func isURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
