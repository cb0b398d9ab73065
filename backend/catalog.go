package backend

import (
	"fmt"
	"sort"
	"strings"
)

// CatalogConfig lists the known backends.
type CatalogConfig struct {
	// Quorum is queried, in order, for every q1 question.
	Quorum []Backend `yaml:"quorum" mapstructure:"quorum" validate:"required,min=1,dive"`
	// Synthesizer unifies quorum answers and writes battle summaries.
	Synthesizer Backend `yaml:"synthesizer" mapstructure:"synthesizer"`
	// Aliases maps the lowercase names accepted by q2(...) to backends.
	Aliases map[string]Backend `yaml:"aliases" mapstructure:"aliases"`
}

// DefaultCatalogConfig returns the OpenRouter backends the bot ships with.
func DefaultCatalogConfig() CatalogConfig {
	deepseek := Backend{ID: "deepseek/deepseek-chat", Name: "DeepSeek"}
	chatgpt := Backend{ID: "openai/gpt-4o", Name: "ChatGPT"}
	grok := Backend{ID: "x-ai/grok-4-fast", Name: "Grok"}
	claude := Backend{ID: "anthropic/claude-4.5-sonnet", Name: "Claude"}
	return CatalogConfig{
		Quorum:      []Backend{deepseek, chatgpt, grok},
		Synthesizer: claude,
		Aliases: map[string]Backend{
			"deepseek": deepseek,
			"chatgpt":  chatgpt,
			"grok":     grok,
			"claude":   claude,
			"gpt4":     chatgpt,
			"gpt-4o":   chatgpt,
		},
	}
}

// ApplyDefaults fills an empty catalog with DefaultCatalogConfig.
func (c *CatalogConfig) ApplyDefaults() {
	def := DefaultCatalogConfig()
	if len(c.Quorum) == 0 {
		c.Quorum = def.Quorum
	}
	if c.Synthesizer.ID == "" {
		c.Synthesizer = def.Synthesizer
	}
	if len(c.Aliases) == 0 {
		c.Aliases = def.Aliases
	}
}

// Catalog resolves backend names. It is read-only after construction.
type Catalog struct {
	quorum      []Backend
	synthesizer Backend
	aliases     map[string]Backend
	names       []string
}

// NewCatalog builds a catalog. Alias keys are matched case-insensitively.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	if len(cfg.Quorum) == 0 {
		return nil, fmt.Errorf("backend: quorum is empty")
	}
	if cfg.Synthesizer.ID == "" || cfg.Synthesizer.Name == "" {
		return nil, fmt.Errorf("backend: synthesizer is not configured")
	}
	c := &Catalog{
		quorum:      append([]Backend(nil), cfg.Quorum...),
		synthesizer: cfg.Synthesizer,
		aliases:     make(map[string]Backend, len(cfg.Aliases)),
	}
	for alias, b := range cfg.Aliases {
		key := strings.ToLower(strings.TrimSpace(alias))
		if key == "" || b.ID == "" {
			return nil, fmt.Errorf("backend: invalid alias %q", alias)
		}
		c.aliases[key] = b
		c.names = append(c.names, key)
	}
	sort.Strings(c.names)
	return c, nil
}

// Quorum returns a copy of the default backend list.
func (c *Catalog) Quorum() []Backend {
	return append([]Backend(nil), c.quorum...)
}

// Synthesizer returns the designated synthesis backend.
func (c *Catalog) Synthesizer() Backend { return c.synthesizer }

// Aliases returns the accepted q2 names, sorted.
func (c *Catalog) Aliases() []string {
	return append([]string(nil), c.names...)
}

// Resolve maps names to backends in the given order. Names are trimmed and
// lowercased; a backend named twice (e.g. chatgpt and gpt4) is kept once.
// Unknown names are returned in input order and make the result nil.
func (c *Catalog) Resolve(names []string) ([]Backend, []string) {
	var (
		selected []Backend
		unknown  []string
		seen     = make(map[string]bool)
	)
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		b, ok := c.aliases[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		selected = append(selected, b)
	}
	if len(unknown) > 0 {
		return nil, unknown
	}
	return selected, nil
}
