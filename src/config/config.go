package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/masnyjimmy/campaign-validator/src/validation"
)

const (
	DEFAULT_CONFIG_FILE    = "validator.yaml"
	DEFAULT_SCHEMA_FILE    = "schema.json"
	DEFAULT_CONTENT_DIR    = "content"
	DEFAULT_LISTEN_ADDRESS = ":8080"
	DEFAULT_DEBOUNCE_TIME  = 100 * time.Millisecond
)

type Config struct {
	Schema         string        `yaml:"schema"`
	Content        string        `yaml:"content"`
	Draft          string        `yaml:"draft"`
	Debounce       time.Duration `yaml:"debounce"`
	Listen         string        `yaml:"listen"`
	AllowedOrigins []string      `yaml:"allowedOrigins,omitempty"`
}

func Default() Config {
	return Config{
		Schema:         DEFAULT_SCHEMA_FILE,
		Content:        DEFAULT_CONTENT_DIR,
		Draft:          validation.DefaultDraft,
		Debounce:       DEFAULT_DEBOUNCE_TIME,
		Listen:         DEFAULT_LISTEN_ADDRESS,
		AllowedOrigins: []string{"*"},
	}
}

// Load reads filename over the defaults. A missing file is only an error
// when required is set.
func Load(filename string, required bool) (Config, error) {
	cfg := Default()

	bytes, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("Unable to read config \"%v\": %w", filename, err)
	}

	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return cfg, fmt.Errorf("Unable to parse config \"%v\": %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("Invalid config \"%v\": %w", filename, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Schema == "" {
		return errors.New("schema path is empty")
	}
	if c.Content == "" {
		return errors.New("content directory is empty")
	}
	if _, err := validation.ParseDraft(c.Draft); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("negative debounce %v", c.Debounce)
	}
	return nil
}

// SchemaOptions returns the loader options this config selects.
func (c Config) SchemaOptions() ([]validation.Option, error) {
	draft, err := validation.ParseDraft(c.Draft)
	if err != nil {
		return nil, err
	}
	return []validation.Option{validation.WithDraft(draft)}, nil
}
