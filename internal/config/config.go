// Package config provides configuration for the notesindex binary.
// Loads from: CLI flags > env vars > .notesindex.toml > built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
)

// Built-in defaults.
const (
	DefaultNotesDir      = "notes"
	DefaultOutput        = "public/notes-index.json"
	DefaultGeminiModel   = "gemini-2.5-flash-lite"
	DefaultOllamaURL     = "http://localhost:11434"
	DefaultWorkers       = 4
	DefaultExcerptLength = 200
)

// NotesOverride and OutputOverride are set by the --notes / --output global
// flags and take priority over every other source.
var (
	NotesOverride  string
	OutputOverride string
)

// Config holds all notesindex configuration.
type Config struct {
	Notes  NotesConfig  `toml:"notes"`
	Enrich EnrichConfig `toml:"enrich"`
	Build  BuildConfig  `toml:"build"`
}

// NotesConfig holds input/output locations.
type NotesConfig struct {
	Path     string   `toml:"path"`
	Output   string   `toml:"output"`
	SkipDirs []string `toml:"skip_dirs"`
}

// EnrichConfig holds the external enrichment service settings.
type EnrichConfig struct {
	Provider  string `toml:"provider"`   // "auto" (default), "gemini", "ollama", "none"
	Model     string `toml:"model"`      // provider-specific default if empty
	APIKey    string `toml:"api_key"`    // required for gemini (or set GEMINI_API_KEY)
	OllamaURL string `toml:"ollama_url"` // must point to localhost
}

// BuildConfig holds pipeline tuning parameters.
type BuildConfig struct {
	Workers       int `toml:"workers"`        // per-file worker pool size; 1 = fully serial
	ExcerptLength int `toml:"excerpt_length"` // excerpt truncation limit in characters
}

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Notes: NotesConfig{
			Path:   DefaultNotesDir,
			Output: DefaultOutput,
		},
		Enrich: EnrichConfig{
			Provider:  "auto",
			OllamaURL: DefaultOllamaURL,
		},
		Build: BuildConfig{
			Workers:       DefaultWorkers,
			ExcerptLength: DefaultExcerptLength,
		},
	}
}

// Load merges all configuration sources: defaults < TOML file < env vars
// < CLI flag overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if configPath := findConfigFile(); configPath != "" {
		meta, err := toml.DecodeFile(configPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
		warnUnknownKeys(meta, configPath)
	}

	if v := os.Getenv("NOTES_DIR"); v != "" {
		cfg.Notes.Path = v
	}
	if v := os.Getenv("NOTES_INDEX_OUTPUT"); v != "" {
		cfg.Notes.Output = v
	}
	if v := os.Getenv("NOTES_SKIP_DIRS"); v != "" {
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.Notes.SkipDirs = append(cfg.Notes.SkipDirs, d)
			}
		}
	}
	if v := os.Getenv("NOTES_ENRICH_PROVIDER"); v != "" {
		cfg.Enrich.Provider = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Enrich.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Enrich.APIKey = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Enrich.OllamaURL = v
	}
	if v := os.Getenv("NOTES_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Build.Workers = n
		}
	}

	if NotesOverride != "" {
		cfg.Notes.Path = NotesOverride
	}
	if OutputOverride != "" {
		cfg.Notes.Output = OutputOverride
	}

	return cfg, nil
}

// Validate checks the merged configuration before a run.
func (c *Config) Validate() error {
	return validation.Errors{
		"notes.path":   validation.Validate(c.Notes.Path, validation.Required),
		"notes.output": validation.Validate(c.Notes.Output, validation.Required),
		"enrich.provider": validation.Validate(c.Enrich.Provider,
			validation.In("auto", "gemini", "ollama", "none")),
		"build.workers": validation.Validate(c.Build.Workers,
			validation.Required, validation.Min(1), validation.Max(64)),
		"build.excerpt_length": validation.Validate(c.Build.ExcerptLength,
			validation.Min(1)),
	}.Filter()
}

// findConfigFile looks for .notesindex.toml in the notes root, then CWD.
func findConfigFile() string {
	root := NotesOverride
	if root == "" {
		root = os.Getenv("NOTES_DIR")
	}
	if root != "" {
		p := filepath.Join(root, ".notesindex.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, ".notesindex.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"exclude_dirs": "skip_dirs",
	"skip_paths":   "skip_dirs",
	"ignore_dirs":  "skip_dirs",
	"apikey":       "api_key",
	"api-key":      "api_key",
	"ollamaurl":    "ollama_url",
	"out":          "output",
	"dir":          "path",
	"concurrency":  "workers",
}

// warnUnknownKeys logs warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	fname := filepath.Base(configPath)
	for _, key := range meta.Undecoded() {
		keyStr := key.String()
		lastPart := key[len(key)-1]
		if suggestion, ok := configSuggestions[lastPart]; ok {
			logger.Warn(fmt.Sprintf("unknown key %q in %s — did you mean %q?", keyStr, fname, suggestion))
		} else {
			logger.Warn(fmt.Sprintf("unknown key %q in %s (will be ignored)", keyStr, fname))
		}
	}
}

// defaultSkipDirs are directories never descended into during the walk.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".obsidian":    true,
	".logseq":      true,
	".trash":       true,
	".notesindex":  true,
}

// SkipDirSet returns the set of directory names to skip, merging built-in
// exclusions with the configured extras.
func (c *Config) SkipDirSet() map[string]bool {
	dirs := make(map[string]bool, len(defaultSkipDirs)+len(c.Notes.SkipDirs))
	for k := range defaultSkipDirs {
		dirs[k] = true
	}
	for _, d := range c.Notes.SkipDirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs[d] = true
		}
	}
	return dirs
}

// ErrOllamaNotLocal is returned when the Ollama URL points away from localhost.
var ErrOllamaNotLocal = fmt.Errorf("ollama URL must point to localhost")

// ValidatedOllamaURL returns the Ollama API URL after checking scheme and host.
func (c *Config) ValidatedOllamaURL() (string, error) {
	raw := c.Enrich.OllamaURL
	if raw == "" {
		raw = DefaultOllamaURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid ollama URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("ollama URL must use http or https scheme, got: %s", u.Scheme)
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" && host != "::1" {
		return "", ErrOllamaNotLocal
	}
	return raw, nil
}

// ConfigFilePath returns where `config init` writes the config file.
func ConfigFilePath(notesPath string) string {
	return filepath.Join(notesPath, ".notesindex.toml")
}

// Generate writes a commented default .notesindex.toml into the notes root.
func Generate(notesPath string) error {
	configPath := ConfigFilePath(notesPath)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(configPath, []byte(generateTOMLContent(notesPath)), 0o600)
}

func generateTOMLContent(notesPath string) string {
	var b strings.Builder
	b.WriteString("# notesindex configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: CLI flags > environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: NOTES_DIR, NOTES_INDEX_OUTPUT, NOTES_SKIP_DIRS,\n")
	b.WriteString("#   NOTES_ENRICH_PROVIDER, GEMINI_API_KEY, GEMINI_MODEL, OLLAMA_URL\n\n")

	b.WriteString("[notes]\n")
	b.WriteString(fmt.Sprintf("path = %q\n", notesPath))
	b.WriteString(fmt.Sprintf("output = %q\n", DefaultOutput))
	b.WriteString("# skip_dirs = [\"drafts\", \"archive\"]  # added to built-in exclusions\n\n")

	b.WriteString("[enrich]\n")
	b.WriteString("# Enrichment provider: \"auto\" (default), \"gemini\", \"ollama\", or \"none\"\n")
	b.WriteString("# auto picks gemini when GEMINI_API_KEY is set, else ollama.\n")
	b.WriteString("provider = \"auto\"\n")
	b.WriteString(fmt.Sprintf("# model = %q\n", DefaultGeminiModel))
	b.WriteString("# api_key = \"\"            # or set GEMINI_API_KEY\n")
	b.WriteString(fmt.Sprintf("ollama_url = %q\n\n", DefaultOllamaURL))

	b.WriteString("[build]\n")
	b.WriteString(fmt.Sprintf("workers = %d\n", DefaultWorkers))
	b.WriteString(fmt.Sprintf("excerpt_length = %d\n", DefaultExcerptLength))

	return b.String()
}

// Show returns the current effective configuration as TOML.
func Show() string {
	cfg, err := Load()
	if err != nil {
		return fmt.Sprintf("# Error loading config: %v\n", err)
	}
	var b strings.Builder
	b.WriteString("# Effective notesindex configuration (merged from all sources)\n\n")
	enc := toml.NewEncoder(&b)
	enc.Encode(cfg)
	return b.String()
}
