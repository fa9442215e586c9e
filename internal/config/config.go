// Package config provides configuration management for go-blogleaf.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// AdminUserID is the fixed identity allowed to manage posts. The first
	// registered account receives ID 1 and therefore becomes the admin.
	AdminUserID = 1

	// SessionCookieName is the name of the signed session cookie.
	SessionCookieName = "blogleaf_session"

	// SessionMaxAge bounds how long a login survives without re-authenticating.
	SessionMaxAge = 7 * 24 * time.Hour
)

// MainConfig holds the main configuration for go-blogleaf
type MainConfig struct {
	// Web interface settings
	Web WebConfig

	// Database settings
	Database DatabaseConfig

	AppVersion string // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort    int    `json:"listen_port"`
	SSL           bool   `json:"ssl"`
	CertFile      string `json:"cert_file,omitempty"`
	KeyFile       string `json:"key_file,omitempty"`
	SessionSecret string `json:"-"` // never serialized
	Debug         bool   `json:"debug"` // Enable debug logging for sessions/auth
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	MainDB string `json:"main_db"` // Path to the SQLite database file
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort: 11990,
			SSL:        false,
		},
		Database: DatabaseConfig{
			MainDB: "data/blogleaf.sq3",
		},
	}
}

// LoadFromEnv applies environment overrides on top of the defaults.
//
//	DATABASE_URL   path to the SQLite database file (optional)
//	SESSION_SECRET key for signing session cookies (required)
//	BLOG_PORT      web listen port (optional)
//
// A missing SESSION_SECRET is a fatal configuration error: running with an
// unsigned or guessable session cookie would let anyone forge the admin
// identity, so startup must abort instead of falling back to a default.
func (cfg *MainConfig) LoadFromEnv() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.MainDB = dsn
	}

	if port := os.Getenv("BLOG_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid BLOG_PORT value %q", port)
		}
		cfg.Web.ListenPort = p
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return fmt.Errorf("SESSION_SECRET is not set: refusing to start without a session signing key")
	}
	cfg.Web.SessionSecret = secret

	return nil
}
