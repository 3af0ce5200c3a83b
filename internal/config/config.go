package config

import (
	"regexp"
	"strings"
)

// Config holds the merged application configuration. It is built once at
// startup and read-only afterwards, so it is safe to share across requests
// without locking.
type Config struct {
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Task    TaskConfig    `mapstructure:"task"`

	// Extra holds configuration sections that are not part of the compiled-in
	// defaults. They are carried verbatim, with values coerced to
	// bool/int/string, so hosted application modules can read their own
	// sections from the same file.
	Extra map[string]map[string]any `mapstructure:"-"`
}

// ProjectConfig contains the identity of the scaffolded project.
type ProjectConfig struct {
	Name             string `mapstructure:"name"              validate:"required"`
	Domain           string `mapstructure:"domain"`
	AuthorizedEmails string `mapstructure:"authorized_emails"`
	CommitOnTeardown bool   `mapstructure:"commit_on_teardown"`
}

// EngineConfig contains database engine settings.
type EngineConfig struct {
	URL             string `mapstructure:"url" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string `mapstructure:"migrations_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicURL overrides the scheme and host used to build the OAuth
	// callback URL. When empty the callback is derived from the request.
	PublicURL string `mapstructure:"public_url"`
}

// AuthConfig contains the OAuth client credentials. They are supplied
// externally (environment variables) and never written into the config file.
type AuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	QueueSize   int `mapstructure:"queue_size"`
	WorkerCount int `mapstructure:"worker_count"`
}

var nonWord = regexp.MustCompile(`\W+`)

// Domain returns the project domain: PROJECT.DOMAIN when set, otherwise the
// lowercased project name with non-word runs replaced by underscores.
func (c *Config) Domain() string {
	if c.Project.Domain != "" {
		return c.Project.Domain
	}
	return nonWord.ReplaceAllString(strings.ToLower(c.Project.Name), "_")
}

// Emails returns the authorized email allow-list, split from the
// comma-separated PROJECT.AUTHORIZED_EMAILS value. Entries are trimmed and
// empty entries dropped; matching is case-sensitive so no normalization is
// applied here.
func (c *Config) Emails() []string {
	var emails []string
	for _, e := range strings.Split(c.Project.AuthorizedEmails, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}
