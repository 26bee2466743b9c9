package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxNameLength      = 255  // Attachment display name
	MaxURLLength       = 2048 // Browser limit for ordinary URLs
	MaxDataURLLength   = 1 << 20
	MaxAssetNameLength = 64
	MaxUserAgentLength = 256
	MaxAttachments     = 1000
)

// Defaults applied when the file leaves a field empty.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 10 << 20
)

// Config holds all configuration for loading and rendering a document.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Decode DecodeConfig `yaml:"decode"`
	Render RenderConfig `yaml:"render"`
	Page   PageConfig   `yaml:"page"`
	Assets AssetsConfig `yaml:"assets"`
	Output OutputConfig `yaml:"output"`
}

// InputConfig defines where the markdown comes from.
type InputConfig struct {
	Attachments []Attachment `yaml:"attachments"` // Empty = built-in fallback
	Location    string       `yaml:"location"`    // Page address carrying the "url" parameter
}

// Attachment is a named markdown source.
type Attachment struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FetchConfig defines remote fetch options.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "30s"
	MaxBytes  int64  `yaml:"maxBytes"`  // 0 = default
	UserAgent string `yaml:"userAgent"` // Empty = default
}

// DecodeConfig defines data URL decoding options.
type DecodeConfig struct {
	Strict bool `yaml:"strict"` // Fail on invalid base64 instead of rendering empty text
}

// RenderConfig defines markdown conversion options.
type RenderConfig struct {
	Engine         string `yaml:"engine"`         // "goldmark" (default) or "gomarkdown"
	RawHTML        *bool  `yaml:"rawHTML"`        // nil = pass raw HTML through
	HighlightStyle string `yaml:"highlightStyle"` // Chroma style name
	RewriteLinks   bool   `yaml:"rewriteLinks"`   // Resolve relative links against the document URL
}

// PageConfig defines the output page.
type PageConfig struct {
	Style    string `yaml:"style"`    // Name of style, "none" disables it
	Template string `yaml:"template"` // Name of page template
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// OutputConfig defines output destinations.
type OutputConfig struct {
	Path string `yaml:"path"` // Empty = stdout
	PDF  string `yaml:"pdf"`  // Non-empty = also print to PDF
}

// TimeoutDuration parses Fetch.Timeout, returning DefaultTimeout when empty.
func (f FetchConfig) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: fetch.timeout: must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// RawHTMLEnabled reports whether raw HTML in markdown is passed through.
func (r RenderConfig) RawHTMLEnabled() bool {
	return r.RawHTML == nil || *r.RawHTML
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if len(c.Input.Attachments) > MaxAttachments {
		return fmt.Errorf("%w: input.attachments (%d entries, max %d)", ErrFieldTooLong, len(c.Input.Attachments), MaxAttachments)
	}
	for i, a := range c.Input.Attachments {
		if err := validateFieldLength(fmt.Sprintf("input.attachments[%d].name", i), a.Name, MaxNameLength); err != nil {
			return err
		}
		if strings.TrimSpace(a.URL) == "" {
			return fmt.Errorf("%w: input.attachments[%d].url: required", ErrInvalidValue, i)
		}
		limit := MaxURLLength
		if strings.HasPrefix(a.URL, "data:") {
			limit = MaxDataURLLength
		}
		if err := validateFieldLength(fmt.Sprintf("input.attachments[%d].url", i), a.URL, limit); err != nil {
			return err
		}
	}
	if err := validateFieldLength("input.location", c.Input.Location, MaxURLLength); err != nil {
		return err
	}

	if _, err := c.Fetch.TimeoutDuration(); err != nil {
		return err
	}
	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("%w: fetch.maxBytes: must not be negative, got %d", ErrInvalidValue, c.Fetch.MaxBytes)
	}
	if err := validateFieldLength("fetch.userAgent", c.Fetch.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}

	if err := validateFieldLength("render.engine", c.Render.Engine, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.highlightStyle", c.Render.HighlightStyle, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.style", c.Page.Style, MaxAssetNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.template", c.Page.Template, MaxAssetNameLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration using the built-in fallback document,
// embedded assets and default fetch limits.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{Timeout: DefaultTimeout.String(), MaxBytes: DefaultMaxBytes},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFile(configPath, &cfg, true); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdview", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
