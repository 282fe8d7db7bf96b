// Package config loads chronoform settings from defaults, an optional .env
// file and the process environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the complete runtime configuration.
type Config struct {
	Remote RemoteConfig `koanf:"remote"`
	Paths  PathsConfig  `koanf:"paths"`
	Filter FilterConfig `koanf:"filter"`
	Format FormatConfig `koanf:"format"`
	BookID string       `koanf:"book_id"`
}

// RemoteConfig holds the case-management API settings.
type RemoteConfig struct {
	BaseURL  string        `koanf:"base_url" validate:"required,url"`
	User     string        `koanf:"user"     validate:"required"`
	Password string        `koanf:"password" validate:"required"`
	Timeout  time.Duration `koanf:"timeout"  validate:"gt=0"`
	Retries  int           `koanf:"retries"  validate:"gte=0"`
}

// PathsConfig holds the on-disk locations used by the pipeline.
type PathsConfig struct {
	OutputDir    string `koanf:"output_dir"`
	ProcessedDir string `koanf:"processed_dir"`
	QueueFile    string `koanf:"queue_file"`
	StateFile    string `koanf:"state_file"`
	LogDir       string `koanf:"log_dir"`
}

// FilterConfig holds the record exclusion rules.
type FilterConfig struct {
	ExcludedDocumentTypes []string `koanf:"excluded_document_types"`
	ExcludedIDs           []string `koanf:"excluded_ids"`
	SkipHandwritten       bool     `koanf:"skip_handwritten"`
}

// FormatConfig holds normalization options.
type FormatConfig struct {
	BoldHeadings bool `koanf:"bold_headings"`
	Workers      int  `koanf:"workers"`
}

// envMappings maps environment variables to config paths.
var envMappings = map[string]string{
	"BASE_URL":                "remote.base_url",
	"USER":                    "remote.user",
	"PASSWORD":                "remote.password",
	"HTTP_TIMEOUT":            "remote.timeout",
	"HTTP_RETRIES":            "remote.retries",
	"OUTPUT_DIR":              "paths.output_dir",
	"PROCESSED_DIR":           "paths.processed_dir",
	"QUEUE_FILE":              "paths.queue_file",
	"STATE_FILE":              "paths.state_file",
	"LOG_DIR":                 "paths.log_dir",
	"EXCLUDED_DOCUMENT_TYPES": "filter.excluded_document_types",
	"EXCLUDED_IDS":            "filter.excluded_ids",
	"SKIP_HANDWRITTEN":        "filter.skip_handwritten",
	"BOLD_HEADINGS":           "format.bold_headings",
	"WORKERS":                 "format.workers",
	"BOOK_ID":                 "book_id",
}

// listKeys are config paths whose env values are comma separated.
var listKeys = map[string]bool{
	"filter.excluded_document_types": true,
	"filter.excluded_ids":            true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Paths: PathsConfig{
			OutputDir:    "outputs",
			ProcessedDir: "processed",
			QueueFile:    "inputs_ctp_formatter/book_id_queue.xlsx",
			StateFile:    "last_run_timestamp.txt",
			LogDir:       "inputs_ctp_formatter",
		},
		Filter: FilterConfig{
			SkipHandwritten: true,
		},
		Format: FormatConfig{
			BoldHeadings: true,
		},
	}
}

// Load builds a Config. envFile, when non-empty, is read with godotenv
// first; a missing file is not an error. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// transformEnv keeps only mapped variables; koanf drops keys returned empty.
func transformEnv(key, value string) (string, any) {
	path, ok := envMappings[key]
	if !ok {
		return "", nil
	}
	if listKeys[path] {
		return path, splitList(value)
	}
	return path, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateRemote checks the settings a remote stage needs.
func (c *Config) ValidateRemote() error {
	if err := validator.New().Struct(c.Remote); err != nil {
		return fmt.Errorf("invalid remote config: %w", err)
	}
	return nil
}

// RequireBookID returns the book id or an error when it is unset.
func (c *Config) RequireBookID() (string, error) {
	id := strings.TrimSpace(c.BookID)
	if id == "" {
		return "", fmt.Errorf("BOOK_ID is not set")
	}
	return id, nil
}
