package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/authenticator"
	"github.com/iotbase/iot-auth/pkg/authorizer"
	"github.com/iotbase/iot-auth/pkg/broker"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/endpoints"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the broker auth/ACL hook server",
	Long: `Run the broker auth/ACL hook server.

To run the server requires the environment variable DATABASE_URL. Set
session_secret in iotauth.yml (or IOTAUTH_SESSION_SECRET) to enable the
device and app endpoints.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(host, port, !noMigrate); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port string, migrate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if migrate {
		logger.Info("running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := connectDB(cfg)
	if err != nil {
		return err
	}

	sink, closeAudit, err := newAuditor(cfg)
	if err != nil {
		return err
	}
	defer closeAudit()

	credentials := gormstore.NewCredentialsStore(database)
	permissions := gormstore.NewPermissionsStore(database)
	devices := gormstore.NewDevicesStore(database)
	users := gormstore.NewUsersStore(database)

	opts := server.Options{
		Config:        cfg,
		Logger:        logger,
		Version:       version,
		Authenticator: authenticator.New(credentials, sink, logger),
		Authorizer:    authorizer.New(credentials, permissions, sink, logger),
		Provisioner:   provision.New(credentials, users, devices, sink, logger),
		DevicesStore:  devices,
		HealthStore:   gormstore.NewHealthStore(database),
	}
	if cfg.ProbeUsername != "" {
		opts.Broker = broker.NewProbe(cfg.EffectiveBrokerURL(), cfg.ProbeUsername, cfg.ProbePassword, 0)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("session_secret is not set; session endpoints will reject every request")
	}

	s := server.NewServer(opts, host, port)
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", fmt.Sprintf("http://%s:%s", host, port))
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
