package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the site configuration file name, looked up at the site root.
const ConfigFile = "darpan.yml"

// RouterMode selects how the browser navigates between pages.
type RouterMode string

const (
	// RouterBrowser uses path-based navigation (history API).
	RouterBrowser RouterMode = "browser"
	// RouterHash uses hash-fragment navigation, for hosts that cannot
	// rewrite arbitrary paths to the app shell.
	RouterHash RouterMode = "hash"
)

// PluginSpec declares one plugin instance in the site configuration.
type PluginSpec struct {
	Name string `yaml:"name"`
	// ID distinguishes multiple instances of the same plugin.
	// Empty means "default".
	ID string `yaml:"id"`
	// Dir is an optional directory (relative to the site root) whose
	// changes should trigger a reload of just this plugin.
	Dir     string         `yaml:"dir"`
	Options map[string]any `yaml:"options"`
}

// Identity returns the instance identity for this spec.
func (p PluginSpec) Identity() Identity {
	id := p.ID
	if id == "" {
		id = "default"
	}
	return Identity{Name: p.Name, ID: id}
}

// Config holds the site-wide settings parsed from darpan.yml.
type Config struct {
	Title string `yaml:"title"`
	// Base is the path prefix the site is served under, e.g. "/docs/".
	// Always stored with leading and trailing slashes.
	Base    string       `yaml:"base"`
	Router  RouterMode   `yaml:"router"`
	Theme   string       `yaml:"theme"`
	Plugins []PluginSpec `yaml:"plugins"`
}

// ReadConfig reads and normalizes darpan.yml from the site root. A missing
// file yields the default configuration.
func ReadConfig(dir string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", ConfigFile, err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.Title == "" {
		c.Title = "darpan site"
	}
	c.Base = NormalizeBase(c.Base)

	switch c.Router {
	case "":
		c.Router = RouterBrowser
	case RouterBrowser, RouterHash:
	default:
		return fmt.Errorf("unknown router mode %q", c.Router)
	}

	if c.Theme == "" {
		c.Theme = "dracula"
	}

	seen := make(map[Identity]bool, len(c.Plugins))
	for _, p := range c.Plugins {
		if p.Name == "" {
			return fmt.Errorf("plugin entry is missing a name")
		}
		id := p.Identity()
		if seen[id] {
			return fmt.Errorf("duplicate plugin instance %s", id)
		}
		seen[id] = true
	}
	return nil
}

// NormalizeBase forces leading and trailing slashes on a base path.
// "" and "/" both normalize to "/".
func NormalizeBase(base string) string {
	if base == "" {
		return "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
