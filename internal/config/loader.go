package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Lookup finds a variable by name. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Load reads configuration from the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	return LoadWith(os.LookupEnv)
}

// LoadWith reads configuration through lookup. Every unparseable variable
// is reported, not only the first.
func LoadWith(lookup Lookup) (*Config, error) {
	cfg := &Config{}

	b := binder{lookup: lookup}
	b.bind(reflect.ValueOf(cfg).Elem())
	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// binder fills struct fields from their env, envAlt, default and required tags.
type binder struct {
	lookup Lookup
	errs   []error
}

func (b *binder) bind(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			b.bind(fv)
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := b.value(name, field.Tag.Get("envAlt"))
		if !ok {
			if field.Tag.Get("required") == "true" {
				b.errs = append(b.errs, fmt.Errorf("required environment variable %s is not set", name))
				continue
			}
			raw = field.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		parse, found := parsers[field.Type]
		if !found {
			b.errs = append(b.errs, fmt.Errorf("%s: unsupported field type %s", name, field.Type))
			continue
		}
		parsed, err := parse(raw)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("invalid value for %s=%q: %w", name, raw, err))
			continue
		}
		fv.Set(parsed.Convert(field.Type))
	}
}

// value returns the first non-empty variable among name and alt.
func (b *binder) value(name, alt string) (string, bool) {
	if v, ok := b.lookup(name); ok && v != "" {
		return v, true
	}
	if alt != "" {
		if v, ok := b.lookup(alt); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// parsers convert a raw variable into a value of the keyed field type.
var parsers = map[reflect.Type]func(string) (reflect.Value, error){
	reflect.TypeFor[string](): func(s string) (reflect.Value, error) {
		return reflect.ValueOf(s), nil
	},
	reflect.TypeFor[int](): func(s string) (reflect.Value, error) {
		n, err := strconv.Atoi(s)
		return reflect.ValueOf(n), err
	},
	reflect.TypeFor[int64](): func(s string) (reflect.Value, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		return reflect.ValueOf(n), err
	},
	reflect.TypeFor[bool](): func(s string) (reflect.Value, error) {
		v, err := strconv.ParseBool(s)
		return reflect.ValueOf(v), err
	},
	reflect.TypeFor[time.Duration](): func(s string) (reflect.Value, error) {
		d, err := time.ParseDuration(s)
		return reflect.ValueOf(d), err
	},
	reflect.TypeFor[[]string](): func(s string) (reflect.Value, error) {
		var out []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return reflect.ValueOf(out), nil
	},
}

// Validate checks that the configuration is usable and reports every
// problem found.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	check(c.Server.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(c.Server.WriteTimeout >= 0, "SERVER_WRITE_TIMEOUT must be non-negative")
	check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	check(c.Server.RequestTimeout > 0, "SERVER_REQUEST_TIMEOUT must be positive")

	check(c.Upload.MaxFileSize > 0, "UPLOAD_MAX_FILE_SIZE must be positive")
	check(c.Upload.MaxRows >= 0, "UPLOAD_MAX_ROWS must be non-negative")
	check(c.Upload.MaxConcurrent > 0, "UPLOAD_MAX_CONCURRENT must be positive")
	check(c.Upload.MaxWait >= 0, "UPLOAD_MAX_WAIT must be non-negative")

	check(c.Session.TTL > 0, "SESSION_TTL must be positive")
	check(c.Session.MaxSessions > 0, "SESSION_MAX must be positive")
	check(c.Session.JanitorInterval > 0, "SESSION_JANITOR_INTERVAL must be positive")

	check(!c.Rate.Enabled || c.Rate.RequestsPerMinute > 0,
		"RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	check(!c.Security.RequireAPIKey || len(c.Security.APIKeys) > 0,
		"REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	check(!c.Metrics.Enabled || strings.HasPrefix(c.Metrics.Path, "/"),
		"METRICS_PATH (%q) must start with /", c.Metrics.Path)

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		check(false, "LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		check(false, "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// String renders the config for logging with API keys masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config{Server: {Addr: %q, RequestTimeout: %s}, ", c.Server.Addr(), c.Server.RequestTimeout)
	fmt.Fprintf(&b, "Upload: {MaxFileSize: %d, MaxRows: %d, MaxConcurrent: %d, MaxWait: %s}, ",
		c.Upload.MaxFileSize, c.Upload.MaxRows, c.Upload.MaxConcurrent, c.Upload.MaxWait)
	fmt.Fprintf(&b, "Session: {TTL: %s, MaxSessions: %d, JanitorInterval: %s}, ",
		c.Session.TTL, c.Session.MaxSessions, c.Session.JanitorInterval)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Security: {TrustedProxies: %v, EnableCSP: %v, RequireAPIKey: %v, APIKeys: [%d MASKED]}, ",
		c.Security.TrustedProxies, c.Security.EnableCSP, c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}, ", c.Logging.Level, c.Logging.Format)
	fmt.Fprintf(&b, "Metrics: {Enabled: %v, Path: %q}}", c.Metrics.Enabled, c.Metrics.Path)
	return b.String()
}
