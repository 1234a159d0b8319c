package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Generation backends a context can select.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Config is the on-disk CLI configuration: a set of named backend
// contexts and the currently selected one.
type Config struct {
	CurrentContext string              `yaml:"current_context,omitempty"`
	Contexts       map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context selects and authenticates one generation backend.
type Context struct {
	Name string `yaml:"name"`

	// Backend is "openai" or "gemini".
	Backend string `yaml:"backend"`

	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the backend endpoint, for OpenAI-compatible
	// providers. Ignored by the gemini backend.
	BaseURL string `yaml:"base_url,omitempty"`

	Model string `yaml:"model,omitempty"`
}

// Validate checks that the context can construct a generator.
func (ctx *Context) Validate() error {
	switch ctx.Backend {
	case BackendOpenAI, BackendGemini:
	default:
		return fmt.Errorf("context %q: unknown backend %q", ctx.Name, ctx.Backend)
	}
	if ctx.APIKey == "" {
		return fmt.Errorf("context %q: api_key is required", ctx.Name)
	}
	if ctx.Model == "" {
		return fmt.Errorf("context %q: model is required", ctx.Name)
	}
	return nil
}

// LoadConfig loads (or creates) the configuration at the default path.
func LoadConfig() (*Config, error) {
	paths, err := NewPaths()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(paths.ConfigFile())
}

// LoadConfigFrom loads configuration from a specific file, creating an
// empty one if it does not exist yet.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration back to disk.
func (c *Config) Save() error {
	if err := ensureParentDir(c.configPath); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	return c.configPath
}

// AddContext registers (or replaces) a named context.
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	if err := ctx.Validate(); err != nil {
		return err
	}
	c.Contexts[name] = ctx
	if c.CurrentContext == "" {
		c.CurrentContext = name
	}
	return c.Save()
}

// DeleteContext removes a context, clearing the current selection when
// it pointed at the removed one.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext selects the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// ResolveContext returns the named context, or the current one when name
// is empty.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		name = c.CurrentContext
	}
	if name == "" {
		return nil, fmt.Errorf("no context selected; run 'chalktalk config use <name>'")
	}
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// ListContexts returns all context names.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	return names
}

// MaskAPIKey hides the middle of a key for display.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
