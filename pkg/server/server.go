package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/iotbase/iot-auth/pkg/authenticator"
	"github.com/iotbase/iot-auth/pkg/authorizer"
	"github.com/iotbase/iot-auth/pkg/broker"
	"github.com/iotbase/iot-auth/pkg/config"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server/middleware"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// BrokerChecker reports whether the MQTT broker is reachable
type BrokerChecker interface {
	Check(ctx context.Context) (*broker.Status, error)
}

// Options are the collaborators of a Server
type Options struct {
	Config        *config.Config
	Logger        *slog.Logger
	Version       string
	Authenticator *authenticator.Authenticator
	Authorizer    *authorizer.Authorizer
	Provisioner   *provision.Provisioner
	DevicesStore  store.DevicesStore
	HealthStore   store.HealthStore
	Broker        BrokerChecker

	// AccessLog receives the access log; defaults to stdout
	AccessLog io.Writer
}

type Server struct {
	Config            *config.Config
	Logger            *slog.Logger
	Version           string
	Authenticator     *authenticator.Authenticator
	Authorizer        *authorizer.Authorizer
	Provisioner       *provision.Provisioner
	DevicesStore      store.DevicesStore
	HealthStore       store.HealthStore
	Broker            BrokerChecker
	SessionMiddleware *middleware.SessionAuthenticator
	Router            *mux.Router
	srv               *http.Server
}

func NewServer(opts Options, host string, port string) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(opts.AccessLog, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:            opts.Config,
		Logger:            opts.Logger,
		Version:           opts.Version,
		Authenticator:     opts.Authenticator,
		Authorizer:        opts.Authorizer,
		Provisioner:       opts.Provisioner,
		DevicesStore:      opts.DevicesStore,
		HealthStore:       opts.HealthStore,
		Broker:            opts.Broker,
		SessionMiddleware: middleware.NewSessionAuthenticator([]byte(opts.Config.SessionSecret)),
		Router:            router,
		srv:               srv,
	}
}

// Handler returns the logged router
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
