package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/authenticator"
	"github.com/iotbase/iot-auth/pkg/authorizer"
	"github.com/iotbase/iot-auth/pkg/config"
	"github.com/iotbase/iot-auth/pkg/db"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/endpoints"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerConfig holds the settings of a test server instance
type ServerConfig struct {
	HookToken     string
	SessionSecret string
}

// ServerInstance represents a running server
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd // For binary mode
}

// StartServer starts a server against dbURL in the mode the suite was started with
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc.DatabaseURL, cfg)
	}
	return startBinaryServerInstance(tc.BinaryPath, tc.DatabaseURL, cfg)
}

// startInlineServerInstance starts an in-process server wired like "iotctl server"
func startInlineServerInstance(dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	database, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}

	conf := config.Default()
	conf.HookToken = cfg.HookToken
	conf.SessionSecret = cfg.SessionSecret

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	credentials := gormstore.NewCredentialsStore(database)
	permissions := gormstore.NewPermissionsStore(database)
	devices := gormstore.NewDevicesStore(database)
	users := gormstore.NewUsersStore(database)

	s := server.NewServer(server.Options{
		Config:        conf,
		Logger:        logger,
		Version:       "integration",
		Authenticator: authenticator.New(credentials, audit.Discard, logger),
		Authorizer:    authorizer.New(credentials, permissions, audit.Discard, logger),
		Provisioner:   provision.New(credentials, users, devices, audit.Discard, logger),
		DevicesStore:  devices,
		HealthStore:   gormstore.NewHealthStore(database),
		AccessLog:     io.Discard,
	}, "127.0.0.1", fmt.Sprintf("%d", port))
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	_, cancel := context.WithCancel(context.Background())

	instance := &ServerInstance{
		Server:    s,
		ServerURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:      port,
		Config:    cfg,
		cancel:    cancel,
		listener:  listener,
	}

	go func() {
		_ = s.StartWithListener(listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts "iotctl server" as a subprocess
func startBinaryServerInstance(binaryPath, dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := fmt.Sprintf("%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since the suite already migrated the database
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"IOTAUTH_CONFIG_PATH="+os.TempDir(),
		"IOTAUTH_HOOK_TOKEN="+cfg.HookToken,
		"IOTAUTH_SESSION_SECRET="+cfg.SessionSecret,
		"IOTAUTH_AUDIT_ENABLED=false",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.Server.Shutdown(ctx)
		cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
