package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gorm.io/gorm"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/config"
	"github.com/iotbase/iot-auth/pkg/db"
	"github.com/iotbase/iot-auth/pkg/logging"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// loadConfig loads and validates the configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, version)
}

func connectDB(cfg *config.Config) (*gorm.DB, error) {
	return db.Connect(db.Config{Debug: cfg.LogLevel == "debug"})
}

// newAuditor returns the audit sink and a close func. Audit messages are
// persisted when AUDIT_DATABASE_URL is set.
func newAuditor(cfg *config.Config) (audit.Sink, func(), error) {
	if !cfg.IsAuditEnabled() {
		return audit.Discard, func() {}, nil
	}

	store, err := audit.NewStore(os.Getenv("AUDIT_DATABASE_URL"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	auditor := audit.NewAuditor(audit.NewLogger(), store)
	return auditor, func() { _ = auditor.Close() }, nil
}

// cliActor names the operator in audit records written by CLI commands
func cliActor() string {
	if user := os.Getenv("USER"); user != "" {
		return "iotctl:" + user
	}
	return "iotctl"
}
