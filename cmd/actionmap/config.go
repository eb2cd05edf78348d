package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// config is the resolved server configuration.
type config struct {
	version    bool
	port       int
	routesDir  string
	db         string
	table      string
	logLevel   slog.Level
	rateLimit  int
	trustProxy bool
}

// envFallback maps a flag to the environment variable consulted when the flag
// is not set on the command line.
var envFallback = map[string]string{
	"port":        "PORT",
	"routes-dir":  "ROUTES_DIR",
	"db":          "DB_ACTION_MAPPINGS",
	"table":       "DB_TABLE",
	"log-level":   "LOG_LEVEL",
	"rate-limit":  "RATE_LIMIT",
	"trust-proxy": "TRUST_PROXY",
}

// parseConfig parses args.
//
// A flag not given explicitly takes its value from the environment, then from
// the .env file, then its default.
func parseConfig(args []string, lookupEnv func(string) (string, bool), stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("actionmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	version := fs.Bool("version", false, "Print version and exit")
	port := fs.String("port", "3000", "TCP port to listen on, on all interfaces")
	routesDir := fs.String("routes-dir", "", "Directory holding the route tree; the embedded tree is used when empty")
	db := fs.String("db", "data/actions.json", "JSON document holding the action mappings")
	table := fs.String("table", "actionMappings", "Table of the document holding the action mappings")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	rateLimit := fs.String("rate-limit", "6000", "Requests per minute allowed per client IP; 0 disables")
	trustProxy := fs.Bool("trust-proxy", false, "Take the client IP from X-Forwarded-For or X-Real-IP; only behind a reverse proxy")
	envFile := fs.String("env-file", ".env", "File of KEY=VALUE lines used when neither flag nor environment is set")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	dotenv, err := loadDotEnv(*envFile)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	for name, key := range envFallback {
		if set[name] {
			continue
		}
		v, ok := lookupEnv(key)
		if !ok || v == "" {
			v, ok = dotenv[key]
		}
		if ok && v != "" {
			if err := fs.Set(name, v); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	c := &config{
		version:    *version,
		routesDir:  *routesDir,
		db:         *db,
		table:      *table,
		trustProxy: *trustProxy,
	}
	if c.port, err = strconv.Atoi(*port); err != nil || c.port < 0 || c.port > 65535 {
		return nil, fmt.Errorf("invalid port %q", *port)
	}
	if c.rateLimit, err = strconv.Atoi(*rateLimit); err != nil || c.rateLimit < 0 {
		return nil, fmt.Errorf("invalid rate limit %q", *rateLimit)
	}
	if c.logLevel, err = parseLevel(*logLevel); err != nil {
		return nil, err
	}
	if c.db == "" {
		return nil, errors.New("-db must not be empty")
	}
	return c, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
}

// loadDotEnv reads KEY=VALUE lines. A missing file is not an error.
func loadDotEnv(path string) (map[string]string, error) {
	env := make(map[string]string)
	if path == "" {
		return env, nil
	}
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is the -env-file flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return env, nil
		}
		return nil, err
	}
	for line := range strings.SplitSeq(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		val = strings.TrimSpace(val)
		if strings.HasPrefix(val, "'") || strings.HasSuffix(val, "'") {
			if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
				return nil, fmt.Errorf("single quotes are not supported for wrapping in %s: %s", path, line)
			}
			return nil, fmt.Errorf("unbalanced single quotes in %s: %s", path, line)
		}
		if strings.HasPrefix(val, "\"") {
			unquoted, err := strconv.Unquote(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			val = unquoted
		}
		env[key] = val
	}
	return env, nil
}
