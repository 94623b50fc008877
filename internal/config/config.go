// Package config resolves runtime configuration from CLI flags, environment
// variables and an optional YAML file. Precedence: flags, then environment,
// then file, then built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StartView names the view the application opens on.
type StartView struct {
	Name  string
	Phone string
}

// Recognised start view names. Messages and Compose require a phone number
// suffix ("messages:+15550001").
const (
	ViewMenu      = "menu"
	ViewPhonebook = "phonebook"
	ViewDevice    = "device"
	ViewMessages  = "messages"
	ViewCompose   = "compose"
)

// Config captures runtime configuration for the application.
type Config struct {
	Gateway   Gateway
	UI        UI
	Logging   Logging
	CacheFile string
	Flags     map[string]string
	Args      []string
}

type Gateway struct {
	BaseURL string
	WSURL   string
	Token   string
	Live    bool
}

type UI struct {
	Theme     string
	StartView StartView
}

type Logging struct {
	FilePath string
	Trace    bool
	Verbose  bool
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	Gateway struct {
		URL   string `yaml:"url"`
		WSURL string `yaml:"ws_url"`
		Token string `yaml:"token"`
		Live  *bool  `yaml:"live"`
	} `yaml:"gateway"`
	UI struct {
		Theme     string `yaml:"theme"`
		StartView string `yaml:"start_view"`
	} `yaml:"ui"`
	Logging struct {
		File  string `yaml:"file"`
		Trace *bool  `yaml:"trace"`
	} `yaml:"logging"`
	CacheFile string `yaml:"cache_file"`
}

const (
	envGatewayURL = "SMS_TERMINAL_GATEWAY_URL"
	envWSURL      = "SMS_TERMINAL_WS_URL"
	envToken      = "SMS_TERMINAL_TOKEN"
	envLive       = "SMS_TERMINAL_LIVE"
	envTheme      = "SMS_TERMINAL_THEME"
	envStartView  = "SMS_TERMINAL_START_VIEW"
	envTrace      = "SMS_TERMINAL_TRACE"
	envVerbose    = "SMS_TERMINAL_VERBOSE"
	envLogFile    = "SMS_TERMINAL_LOG_FILE"
	envConfigFile = "SMS_TERMINAL_CONFIG"
	envCacheFile  = "SMS_TERMINAL_CACHE_FILE"
)

const (
	defaultGatewayURL = "http://localhost:3000"
	defaultTheme      = "emerald"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("sms-terminal", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfigFile, defaultConfigPath()), "path to the YAML config file")
	gatewayURL := fs.String("gateway-url", "", "base URL of the SMS gateway HTTP API")
	wsURL := fs.String("ws-url", "", "WebSocket URL for live events (derived from gateway-url when empty)")
	token := fs.String("token", "", "bearer token for gateway authentication")
	live := fs.String("live", "", "enable live event updates (true/false)")
	themeName := fs.String("theme", "", "accent palette name")
	startView := fs.String("start-view", "", "view to open on start (menu|phonebook|device|messages:<phone>|compose:<phone>)")
	trace := fs.String("trace", "", "enable verbose JSON trace logging (true/false)")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "log successful actions as well as errors")
	logFile := fs.String("log-file", "", "path to the log file")
	cacheFile := fs.String("cache-file", "", "path to the contact cache database")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	file, err := loadFile(*configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Gateway: Gateway{
			BaseURL: firstNonEmpty(*gatewayURL, env[envGatewayURL], file.Gateway.URL, defaultGatewayURL),
			WSURL:   firstNonEmpty(*wsURL, env[envWSURL], file.Gateway.WSURL),
			Token:   firstNonEmpty(*token, env[envToken], file.Gateway.Token),
			Live:    resolveBool(*live, env[envLive], file.Gateway.Live, true),
		},
		UI: UI{
			Theme: firstNonEmpty(*themeName, env[envTheme], file.UI.Theme, defaultTheme),
		},
		Logging: Logging{
			FilePath: firstNonEmpty(*logFile, env[envLogFile], file.Logging.File),
			Trace:    resolveBool(*trace, env[envTrace], file.Logging.Trace, false),
			Verbose:  *verbose,
		},
		CacheFile: firstNonEmpty(*cacheFile, env[envCacheFile], file.CacheFile, defaultCachePath()),
		Args:      append([]string(nil), args...),
	}
	if cfg.Gateway.WSURL == "" {
		cfg.Gateway.WSURL = deriveWSURL(cfg.Gateway.BaseURL)
	}

	view, err := ParseStartView(firstNonEmpty(*startView, env[envStartView], file.UI.StartView, ViewMenu))
	if err != nil {
		return Config{}, err
	}
	cfg.UI.StartView = view

	cfg.Flags = map[string]string{
		"config":     *configPath,
		"gatewayURL": cfg.Gateway.BaseURL,
		"wsURL":      cfg.Gateway.WSURL,
		"live":       strconv.FormatBool(cfg.Gateway.Live),
		"theme":      cfg.UI.Theme,
		"startView":  view.Name,
		"trace":      strconv.FormatBool(cfg.Logging.Trace),
		"verbose":    strconv.FormatBool(cfg.Logging.Verbose),
		"logFile":    cfg.Logging.FilePath,
		"cacheFile":  cfg.CacheFile,
	}

	return cfg, nil
}

// ParseStartView interprets a start-view argument. Messages and Compose take
// a mandatory ":<phone>" suffix.
func ParseStartView(value string) (StartView, error) {
	name, phone, _ := strings.Cut(strings.TrimSpace(value), ":")
	name = strings.ToLower(name)
	phone = strings.TrimSpace(phone)
	switch name {
	case ViewMenu, ViewPhonebook, ViewDevice:
		if phone != "" {
			return StartView{}, fmt.Errorf("start view %q does not take a phone number", name)
		}
		return StartView{Name: name}, nil
	case ViewMessages, ViewCompose:
		if phone == "" {
			return StartView{}, fmt.Errorf("start view %q requires a phone number (e.g. %s:+15550001)", name, name)
		}
		return StartView{Name: name, Phone: phone}, nil
	default:
		return StartView{}, fmt.Errorf("unknown start view %q", name)
	}
}

// loadFile reads the YAML config file. A missing file is not an error; a
// missing file at the default path is created with commented defaults.
func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if path == defaultConfigPath() {
			writeDefaultFile(path)
		}
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func writeDefaultFile(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	content := "" +
		"# sms-terminal configuration\n" +
		"gateway:\n" +
		"  url: " + defaultGatewayURL + "\n" +
		"  # token: \"\"\n" +
		"  live: true\n" +
		"ui:\n" +
		"  theme: " + defaultTheme + "\n" +
		"  start_view: menu\n" +
		"logging:\n" +
		"  trace: false\n"
	// Best effort: a read-only config dir just means no seed file.
	_ = os.WriteFile(path, []byte(content), 0o644)
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "sms-terminal", "config.yaml")
}

func defaultCachePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "sms-terminal-contacts.db"
	}
	return filepath.Join(base, "sms-terminal", "contacts.db")
}

// deriveWSURL turns the HTTP base URL into the conventional /events
// WebSocket endpoint.
func deriveWSURL(baseURL string) string {
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimRight(ws, "/") + "/events"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// resolveBool applies the flag > env > file > default precedence for a
// tri-state boolean carried as a string flag.
func resolveBool(flagValue, envValue string, fileValue *bool, fallback bool) bool {
	if parsed, err := strconv.ParseBool(strings.TrimSpace(flagValue)); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseBool(strings.TrimSpace(envValue)); err == nil {
		return parsed
	}
	if fileValue != nil {
		return *fileValue
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Gateway.BaseURL) == "" {
		return fmt.Errorf("gateway URL must not be empty")
	}
	if !strings.HasPrefix(cfg.Gateway.BaseURL, "http://") && !strings.HasPrefix(cfg.Gateway.BaseURL, "https://") {
		return fmt.Errorf("gateway URL %q must start with http:// or https://", cfg.Gateway.BaseURL)
	}
	return nil
}
