// Package config loads and validates the goblocks configuration file: one
// YAML document declaring global settings and the ordered list of blocks.
package config

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/me/goblocks/pkg/model"
)

// Config is the full goblocks configuration.
type Config struct {
	// Listen is the optional control API address; empty disables it.
	Listen string `yaml:"listen"`

	// Journal is the optional update-journal database path; empty
	// disables journalling.
	Journal string `yaml:"journal"`

	// Interval is a default period applied to blocks that declare none.
	Interval int `yaml:"interval"`

	// Markup is a default markup mode applied to blocks that declare none.
	Markup string `yaml:"markup"`

	// RefreshSignals overrides the two user-assignable refresh signal
	// numbers (SIGUSR1 and SIGUSR2 by default).
	RefreshSignals []int `yaml:"refresh_signals"`

	// Blocks is the ordered block list. Order is rendering order and
	// click-match order.
	Blocks []BlockConfig `yaml:"blocks"`
}

// BlockConfig declares one block.
type BlockConfig struct {
	Name      string `yaml:"name"`
	Instance  string `yaml:"instance"`
	Command   string `yaml:"command"`
	Interval  int    `yaml:"interval"`
	Signal    int    `yaml:"signal"`
	Label     string `yaml:"label"`
	FullText  string `yaml:"full_text"`
	ShortText string `yaml:"short_text"`
	Color     string `yaml:"color"`
	MinWidth  string `yaml:"min_width"`
	Align     string `yaml:"align"`
	Markup    string `yaml:"markup"`
	Separator *bool  `yaml:"separator"`
}

// Load reads, schema-validates and decodes the configuration file at path,
// then applies global defaults to the blocks.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes one raw YAML configuration document.
func Parse(raw []byte) (*Config, error) {
	// Validate the untyped document first so type mistakes surface as
	// schema errors, not decode errors.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	schema, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.Blocks) == 0 {
		return nil, fmt.Errorf("invalid config: no blocks configured")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults copies global settings onto blocks that leave them unset.
func (c *Config) applyDefaults() {
	for i := range c.Blocks {
		b := &c.Blocks[i]
		if b.Interval == 0 && b.Command != "" {
			b.Interval = c.Interval
		}
		if b.Markup == "" {
			b.Markup = c.Markup
		}
	}
}

// BlockList converts the configuration into the scheduler's block list.
func (c *Config) BlockList() []model.Block {
	blocks := make([]model.Block, len(c.Blocks))
	for i, b := range c.Blocks {
		blocks[i] = model.Block{
			Name:      b.Name,
			Instance:  b.Instance,
			Command:   b.Command,
			Interval:  b.Interval,
			Signal:    b.Signal,
			Label:     b.Label,
			FullText:  b.FullText,
			ShortText: b.ShortText,
			Color:     b.Color,
			MinWidth:  b.MinWidth,
			Align:     b.Align,
			Markup:    b.Markup,
			Separator: b.Separator,
		}
	}
	return blocks
}
