// Package config loads the YAML configuration that names the synced
// databases, the API credentials, and the logging setup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/notesync/notesync/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"

	DefaultOutputDir        = "notion_files"
	DefaultTitleProperty    = "Name"
	DefaultCheckboxProperty = "Checkbox"
	DefaultNotionVersion    = "2022-06-28"

	// TokenEnv is the fallback environment variable for api.token.
	TokenEnv = "NOTION_TOKEN"
)

var (
	// ErrDefaultCreated signals that no config existed and a starter file
	// was written. Callers should tell the user to edit it and exit non-zero.
	ErrDefaultCreated = errors.New("config: default config created")

	ErrDatabaseNotFound = errors.New("config: database not found")
)

type Config struct {
	Defaults  Defaults         `yaml:"defaults" mapstructure:"defaults"`
	API       API              `yaml:"api" mapstructure:"api"`
	Databases []DatabaseConfig `yaml:"databases" mapstructure:"databases"`
	Logging   Logging          `yaml:"logging" mapstructure:"logging"`
}

type Defaults struct {
	OutputDir          string `yaml:"output_dir" mapstructure:"output_dir"`
	FileFormat         string `yaml:"file_format" mapstructure:"file_format"`
	FrontmatterFormat  string `yaml:"frontmatter_format" mapstructure:"frontmatter_format"`
	ConflictResolution string `yaml:"conflict_resolution" mapstructure:"conflict_resolution"`
}

type API struct {
	Token string `yaml:"token" mapstructure:"token"`
	// BaseURL overrides the API endpoint. Leave empty for the hosted service.
	BaseURL       string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	NotionVersion string `yaml:"notion_version" mapstructure:"notion_version"`
}

type DatabaseConfig struct {
	Name             string `yaml:"name" mapstructure:"name"`
	ID               string `yaml:"id" mapstructure:"id"`
	OutputDir        string `yaml:"output_dir" mapstructure:"output_dir"`
	TitleProperty    string `yaml:"title_property,omitempty" mapstructure:"title_property"`
	CheckboxProperty string `yaml:"checkbox_property,omitempty" mapstructure:"checkbox_property"`
	Sync             Sync   `yaml:"sync" mapstructure:"sync"`
}

// Sync toggles use pointers so an absent key means enabled.
type Sync struct {
	Pull        *bool `yaml:"pull" mapstructure:"pull"`
	Push        *bool `yaml:"push" mapstructure:"push"`
	Incremental *bool `yaml:"incremental" mapstructure:"incremental"`
}

func (s Sync) PullEnabled() bool        { return s.Pull == nil || *s.Pull }
func (s Sync) PushEnabled() bool        { return s.Push == nil || *s.Push }
func (s Sync) IncrementalEnabled() bool { return s.Incremental == nil || *s.Incremental }

type Logging struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
	File    string `yaml:"file,omitempty" mapstructure:"file"`
}

// envRef matches ${VAR} references in the raw config text.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and expands the config file. A missing file is bootstrapped
// with WriteDefault and reported as ErrDefaultCreated. Environment
// variables are loaded from .env first, best effort.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if !utils.FileExists(path) {
		if err := WriteDefault(path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrDefaultCreated, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvRefs(string(raw))

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("defaults.output_dir", DefaultOutputDir)
	v.SetDefault("defaults.file_format", "markdown")
	v.SetDefault("defaults.frontmatter_format", "yaml")
	v.SetDefault("defaults.conflict_resolution", "newer_wins")
	v.SetDefault("api.notion_version", DefaultNotionVersion)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)

	if err := v.ReadConfig(strings.NewReader(expanded)); err != nil {
		return nil, fmt.Errorf("parse config '%s': %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config '%s': %w", path, err)
	}

	if cfg.API.Token == "" {
		cfg.API.Token = os.Getenv(TokenEnv)
	}

	for i := range cfg.Databases {
		db := &cfg.Databases[i]
		if db.OutputDir == "" {
			db.OutputDir = cfg.Defaults.OutputDir
		}
		if db.TitleProperty == "" {
			db.TitleProperty = DefaultTitleProperty
		}
		if db.CheckboxProperty == "" {
			db.CheckboxProperty = DefaultCheckboxProperty
		}
	}

	return &cfg, nil
}

// expandEnvRefs substitutes ${VAR} references. Unset variables expand to
// an empty string with a warning, so a missing token fails fast at client
// construction instead of reaching the API as a literal placeholder.
func expandEnvRefs(raw string) string {
	return envRef.ReplaceAllStringFunc(raw, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := os.LookupEnv(name)
		if !ok {
			slog.Warn("environment variable not found", "name", name)
			return ""
		}
		return value
	})
}

// Database finds a configured database by name.
func (c *Config) Database(name string) (*DatabaseConfig, error) {
	for i := range c.Databases {
		if c.Databases[i].Name == name {
			return &c.Databases[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
}

func defaultConfig() *Config {
	enabled := true
	return &Config{
		Defaults: Defaults{
			OutputDir:          DefaultOutputDir,
			FileFormat:         "markdown",
			FrontmatterFormat:  "yaml",
			ConflictResolution: "newer_wins",
		},
		API: API{
			Token:         "${NOTION_TOKEN}",
			NotionVersion: DefaultNotionVersion,
		},
		Databases: []DatabaseConfig{
			{
				Name:      "tasks",
				ID:        "${NOTION_TASK_DATABASE_ID}",
				OutputDir: DefaultOutputDir,
				Sync: Sync{
					Pull:        &enabled,
					Push:        &enabled,
					Incremental: &enabled,
				},
			},
		},
		Logging: Logging{
			Level:   "info",
			Console: true,
		},
	}
}

// WriteDefault writes a starter config with env var placeholders.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return err
	}

	header := "# notesync configuration\n# ${VAR} values are replaced from the environment or a .env file.\n"
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(header+string(data)), 0o644)
}
