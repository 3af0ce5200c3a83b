package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfig marks configuration failures that are fatal at startup: an
// unreadable file or a missing required value. A process that sees ErrConfig
// must not serve traffic.
var ErrConfig = errors.New("invalid configuration")

// knownSections are the sections with compiled-in defaults. Anything else in
// the file is carried into Config.Extra verbatim.
var knownSections = map[string]bool{
	"project": true,
	"engine":  true,
	"server":  true,
	"auth":    true,
	"task":    true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project.name", "")
	v.SetDefault("project.domain", "")
	v.SetDefault("project.authorized_emails", "")
	v.SetDefault("project.commit_on_teardown", true)
	v.SetDefault("engine.url", "postgres://localhost:5432/plinth?sslmode=disable")
	v.SetDefault("engine.max_open_conns", 10)
	v.SetDefault("engine.max_idle_conns", 5)
	v.SetDefault("engine.conn_max_lifetime", "5m")
	v.SetDefault("engine.migrations_dir", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.public_url", "")
	v.SetDefault("task.queue_size", 16)
	v.SetDefault("task.worker_count", 2)
}

// Load reads an INI-style configuration file and merges it over the
// compiled-in defaults. The merge is per-key: keys absent from a known
// section keep their default, and unknown sections are added wholesale.
// OAuth credentials are bound to the PLINTH_OAUTH_CLIENT_ID and
// PLINTH_OAUTH_CLIENT_SECRET environment variables so they never live in the
// file. Returns ErrConfig when the file cannot be read or PROJECT.NAME is
// empty after the merge.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	setDefaults(v)

	if err := v.BindEnv("auth.client_id", "PLINTH_OAUTH_CLIENT_ID"); err != nil {
		return nil, fmt.Errorf("binding client id env: %w", err)
	}
	if err := v.BindEnv("auth.client_secret", "PLINTH_OAUTH_CLIENT_SECRET"); err != nil {
		return nil, fmt.Errorf("binding client secret env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrConfig, path, err)
	}
	cfg.Extra = extraSections(v.AllSettings())

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return &cfg, nil
}

// extraSections extracts sections without compiled-in defaults, coercing each
// value to bool/int/string.
func extraSections(settings map[string]any) map[string]map[string]any {
	extra := make(map[string]map[string]any)
	for section, raw := range settings {
		if knownSections[section] {
			continue
		}
		values, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		coerced := make(map[string]any, len(values))
		for key, value := range values {
			coerced[key] = coerceValue(fmt.Sprintf("%v", value))
		}
		extra[section] = coerced
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
