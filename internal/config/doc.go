// Package config loads the INI project configuration, merges it over
// compiled-in defaults and validates the result.
package config
