// Package config loads qsearchd's settings from a JSON file and
// command-line flags, flags taking precedence — modeled on cc-backend's
// cmd/cc-backend/cli.go flag layout and main.go's .env loading step. A
// .env file, if present, is loaded into the process environment, but no
// Config field is read from environment variables.
package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting qsearchd needs to start serving.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `json:"addr"`
	// MinTokenLength is the tokenizer's minimum accepted token length.
	MinTokenLength int `json:"min_token_length"`
	// StopWordsFile, if non-empty, names a newline-delimited stopword list.
	StopWordsFile string `json:"stopwords_file"`
	// CacheSize is the number of Search results the result cache retains.
	CacheSize int `json:"cache_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// LogFormat is either "pretty" (console, colorized) or "json".
	LogFormat string `json:"log_format"`
}

// Default returns the configuration qsearchd starts from before any file,
// environment, or flag override is applied.
func Default() Config {
	return Config{
		Addr:           ":8080",
		MinTokenLength: 2,
		CacheSize:      1024,
		LogLevel:       "info",
		LogFormat:      "pretty",
	}
}

// Flags holds the parsed command-line overrides. A zero-value field (empty
// string, zero int) means "not set on the command line" and merge leaves
// the existing Config value alone.
type Flags struct {
	ConfigFile string
	Addr       string
	LogLevel   string
	LogFormat  string
	CacheSize  int
}

// ParseFlags registers qsearchd's flags on a fresh flag.FlagSet and parses
// args with it, using flag.StringVar/IntVar-style calls as cc-backend's
// cliInit does.
func ParseFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("qsearchd", flag.ContinueOnError)
	var f Flags
	fs.StringVar(&f.ConfigFile, "config", "", "Path to a JSON config file")
	fs.StringVar(&f.Addr, "addr", "", "Address to listen on (overrides config file)")
	fs.StringVar(&f.LogLevel, "loglevel", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "logformat", "", "Log format: pretty or json")
	fs.IntVar(&f.CacheSize, "cache-size", 0, "Search result cache size (0 leaves the config file value)")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// Load builds a Config by loading a .env file into the process environment
// (a missing .env is not an error), starting from Default, reading a JSON config file if named by
// flags.ConfigFile, and finally applying flags on top.
func Load(flags Flags) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg := Default()
	if flags.ConfigFile != "" {
		data, err := os.ReadFile(flags.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.merge(flags)
	return cfg, nil
}

// SlogLevel parses LogLevel into a slog.Level, defaulting to LevelInfo for
// an empty or unrecognized value.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadStopWords reads a newline-delimited stopword list, one folded token
// per line; blank lines and lines starting with '#' are ignored. It
// returns a nil, error-free map if StopWordsFile is empty.
func (c Config) LoadStopWords() (map[string]struct{}, error) {
	if c.StopWordsFile == "" {
		return nil, nil
	}
	f, err := os.Open(c.StopWordsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := make(map[string]struct{})
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func (c *Config) merge(f Flags) {
	if f.Addr != "" {
		c.Addr = f.Addr
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
	if f.CacheSize != 0 {
		c.CacheSize = f.CacheSize
	}
}
