package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/config"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath  string        // MDVIEW_CONFIG: config file name or path
	Engine      string        // MDVIEW_ENGINE: markdown engine
	Style       string        // MDVIEW_STYLE: CSS style name
	Template    string        // MDVIEW_TEMPLATE: page template name
	AssetPath   string        // MDVIEW_ASSET_PATH: custom asset directory
	Timeout     time.Duration // MDVIEW_TIMEOUT: fetch and page load timeout
	Attachments string        // MDVIEW_ATTACHMENTS: attachment list file
	Location    string        // MDVIEW_LOCATION: page location carrying ?url=
	UserAgent   string        // MDVIEW_USER_AGENT: fetch User-Agent header
}

// knownEnvVars lists valid MDVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDVIEW_CONFIG":      true,
	"MDVIEW_ENGINE":      true,
	"MDVIEW_STYLE":       true,
	"MDVIEW_TEMPLATE":    true,
	"MDVIEW_ASSET_PATH":  true,
	"MDVIEW_TIMEOUT":     true,
	"MDVIEW_ATTACHMENTS": true,
	"MDVIEW_LOCATION":    true,
	"MDVIEW_USER_AGENT":  true,
	"MDVIEW_CONTAINER":   true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MDVIEW_CONFIG"),
		Engine:      os.Getenv("MDVIEW_ENGINE"),
		Style:       os.Getenv("MDVIEW_STYLE"),
		Template:    os.Getenv("MDVIEW_TEMPLATE"),
		AssetPath:   os.Getenv("MDVIEW_ASSET_PATH"),
		Attachments: os.Getenv("MDVIEW_ATTACHMENTS"),
		Location:    os.Getenv("MDVIEW_LOCATION"),
		UserAgent:   os.Getenv("MDVIEW_USER_AGENT"),
	}

	// Invalid or non-positive values are ignored.
	if timeout := os.Getenv("MDVIEW_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDVIEW_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDVIEW_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags; timeout and attachments are
// resolved separately).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" && cfg.Render.Engine == "" {
		cfg.Render.Engine = env.Engine
	}
	if env.Style != "" && cfg.Page.Style == "" {
		cfg.Page.Style = env.Style
	}
	if env.Template != "" && cfg.Page.Template == "" {
		cfg.Page.Template = env.Template
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Location != "" && cfg.Input.Location == "" {
		cfg.Input.Location = env.Location
	}
	if env.UserAgent != "" && cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = env.UserAgent
	}
}
