package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DictDir overrides the dictionary directory.
	// Empty means <base>/yobase; resolve with DictPath.
	DictDir string `json:"dict_dir,omitempty"`

	// PrintWidth is the size in runes of the context window shown around
	// an uncertain occurrence. Default 100.
	PrintWidth int `json:"print_width,omitempty"`

	// AcceptToken is the reply that confirms a replacement in interactive
	// mode. Compared ignoring case and surrounding whitespace. Default "ё".
	AcceptToken string `json:"accept_token,omitempty"`

	// SentenceEnds are the punctuation characters that can close a sentence.
	// The sentence-initial escape table only fires after one of these.
	SentenceEnds string `json:"sentence_ends,omitempty"`

	// PatternCache bounds the compiled-pattern cache. Default 1024.
	PatternCache int `json:"pattern_cache,omitempty"`

	// HistoryLimit is the default page size for run history listings.
	// Default 20.
	HistoryLimit int `json:"history_limit,omitempty"`

	// Color controls ANSI escapes on terminal output: "auto", "always" or
	// "never". Default "auto" (color when the output stream is a terminal).
	Color string `json:"color,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// All tools are enabled by default. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PrintWidth:   100,
		AcceptToken:  "ё",
		SentenceEnds: ".,!?;–—…",
		PatternCache: 1024,
		HistoryLimit: 20,
		Color:        "auto",
	}
}

// DictPath resolves the dictionary directory against the base directory.
func (c *Config) DictPath(baseDir string) string {
	if c.DictDir != "" {
		return c.DictDir
	}
	return filepath.Join(baseDir, "yobase")
}

// ColorEnabled reports whether ANSI escapes should be emitted, given whether
// the output stream is a terminal.
func (c *Config) ColorEnabled(tty bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.yodot.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.yodot) and repo
// (.yodot) directories. Repo config is found by walking upward from startDir
// to find the nearest .yodot/config.json. Repo config takes precedence for
// scalar values; arrays are merged (deduplicated). Either or both configs
// may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	// Walk upward from startDir to find repo config
	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .yodot/config.json. Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".yodot", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Strings: overlay wins if non-empty, else base
	result.DictDir = overlay.DictDir
	if result.DictDir == "" {
		result.DictDir = base.DictDir
	}

	result.AcceptToken = overlay.AcceptToken
	if result.AcceptToken == "" {
		result.AcceptToken = base.AcceptToken
	}

	result.SentenceEnds = overlay.SentenceEnds
	if result.SentenceEnds == "" {
		result.SentenceEnds = base.SentenceEnds
	}

	result.Color = overlay.Color
	if result.Color == "" {
		result.Color = base.Color
	}

	// Integers: overlay wins if non-zero, else base
	result.PrintWidth = overlay.PrintWidth
	if result.PrintWidth == 0 {
		result.PrintWidth = base.PrintWidth
	}

	result.PatternCache = overlay.PatternCache
	if result.PatternCache == 0 {
		result.PatternCache = base.PatternCache
	}

	result.HistoryLimit = overlay.HistoryLimit
	if result.HistoryLimit == 0 {
		result.HistoryLimit = base.HistoryLimit
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
