// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFile is looked up in the working directory when no config path is given.
const DefaultFile = "site.yaml"

// SiteConfig holds the configuration from the site.yaml file.
type SiteConfig struct {
	Title       string         `mapstructure:"title"`
	Author      string         `mapstructure:"author"`
	BaseURL     string         `mapstructure:"baseurl"`
	Description string         `mapstructure:"description"`
	Dir         DirConfig      `mapstructure:"dir"`
	Passthrough []Passthrough  `mapstructure:"passthrough"`
	Markdown    MarkdownConfig `mapstructure:"markdown"`
}

// DirConfig names the project directories. Includes and Data are
// relative to Input.
type DirConfig struct {
	Input    string `mapstructure:"input"`
	Includes string `mapstructure:"includes"`
	Data     string `mapstructure:"data"`
	Output   string `mapstructure:"output"`
}

// Passthrough copies a file or directory verbatim into the output
// directory. To is relative to the output directory.
type Passthrough struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// MarkdownConfig mirrors the renderer switches.
type MarkdownConfig struct {
	HTML      bool            `mapstructure:"html"`
	Linkify   bool            `mapstructure:"linkify"`
	Breaks    bool            `mapstructure:"breaks"`
	Math      bool            `mapstructure:"math"`
	Highlight HighlightConfig `mapstructure:"highlight"`
}

// HighlightConfig selects the chroma style. With Classes set, code blocks
// carry CSS classes and a stylesheet is written next to the assets.
type HighlightConfig struct {
	Style   string `mapstructure:"style"`
	Classes bool   `mapstructure:"classes"`
}

// IncludesDir returns the layouts directory.
func (c SiteConfig) IncludesDir() string {
	return filepath.Join(c.Dir.Input, c.Dir.Includes)
}

// DataDir returns the global data directory.
func (c SiteConfig) DataDir() string {
	return filepath.Join(c.Dir.Input, c.Dir.Data)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "My Site")
	v.SetDefault("baseurl", "/")
	v.SetDefault("dir.input", "src")
	v.SetDefault("dir.includes", "_includes")
	v.SetDefault("dir.data", "_data")
	v.SetDefault("dir.output", "docs")
	v.SetDefault("passthrough", []map[string]any{{"from": "src/assets", "to": "assets"}})
	v.SetDefault("markdown.html", true)
	v.SetDefault("markdown.linkify", true)
	v.SetDefault("markdown.breaks", true)
	v.SetDefault("markdown.math", true)
	v.SetDefault("markdown.highlight.style", "monokai")
	v.SetDefault("markdown.highlight.classes", true)
}

// Default returns the configuration used when no site.yaml exists.
func Default() SiteConfig {
	v := viper.New()
	setDefaults(v)
	cfg := SiteConfig{}
	// Defaults are static; decoding them cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// LoadSiteConfig reads site configuration from path, layered over the
// defaults and SITE_* environment variables. An empty path means
// DefaultFile, which may be absent.
func LoadSiteConfig(path string) (SiteConfig, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
		}
	}

	cfg := SiteConfig{}
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}
