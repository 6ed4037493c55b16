// Package server provides the HTTP server for the addresses API.
// It wires configuration, database, repositories, services and handlers
// together and manages the server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/auth"
	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/database"
	"github.com/bytecodeman/addressesapi/internal/handlers"
	"github.com/bytecodeman/addressesapi/internal/profanity"
	"github.com/bytecodeman/addressesapi/internal/repository"
	"github.com/bytecodeman/addressesapi/internal/service"
	"github.com/bytecodeman/addressesapi/migrations"
	"github.com/bytecodeman/addressesapi/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AddressHandler serves the address resource and the listing page
	AddressHandler *handlers.AddressHandler

	// SystemHandler serves health, version and the route index
	SystemHandler *handlers.SystemHandler
}

// AuthProviders contains the authentication providers for the application.
type AuthProviders struct {
	// Basic checks the shared basic-auth credential
	Basic *auth.BasicAuthProvider
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// httpServer is the underlying HTTP server
	httpServer *http.Server

	addressRepo    repository.AddressRepository
	addressService *service.AddressService
}

// NewServer connects to the database, brings its schema up to date and
// builds a server ready to start.
//
// Initialization order: database → auth providers → repositories → services → handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.initialize(); err != nil {
		s.Db.Close()
		return nil, err
	}

	return s, nil
}

// NewServerWithDB builds a server around an already connected pool.
// No migrations or seeds are run.
func NewServerWithDB(cfg *config.AppConfig, db *database.Pool) (*Server, error) {
	s := &Server{
		Config: cfg,
		Db:     db,
	}

	if err := s.initialize(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) initialize() error {
	if err := s.setupAuthProviders(); err != nil {
		return fmt.Errorf("failed to set up auth providers: %w", err)
	}

	s.setupRepositories()

	if err := s.setupServices(); err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.Config.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  s.Config.Server.IdleTimeout,
	}

	return nil
}

// setupDatabase connects to the database and runs migrations.
// Sample data is seeded only in development.
func (s *Server) setupDatabase(ctx context.Context) error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if s.Config.App.IsDevelopment() {
		seeder := scripts.NewSeeder(db)
		if err := seeder.SeedDatabase(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupAuthProviders builds the basic-auth provider from the configured credential.
func (s *Server) setupAuthProviders() error {
	basic, err := auth.NewBasicAuthProvider(&s.Config.Auth)
	if err != nil {
		return err
	}

	s.authProviders = &AuthProviders{
		Basic: basic,
	}

	return nil
}

func (s *Server) setupRepositories() {
	s.addressRepo = repository.NewAddressRepository(s.Db)
}

// setupServices builds the address service with the configured profanity filter.
func (s *Server) setupServices() error {
	checker, err := profanity.New(&s.Config.Profanity)
	if err != nil {
		return fmt.Errorf("failed to load profanity word list: %w", err)
	}

	s.addressService = service.NewAddressService(s.addressRepo, checker)
	return nil
}

func (s *Server) setupHandlers() {
	metricsPath := ""
	if s.Config.Metrics.Enabled {
		metricsPath = s.Config.Metrics.Path
	}

	s.Handlers = &Handlers{
		AddressHandler: handlers.NewAddressHandler(s.addressService, s.Config.Pagination),
		SystemHandler:  handlers.NewSystemHandler(s.Db, s.Config.App, s.Config.Server.BasePath, metricsPath),
	}
}

// Start starts the HTTP server and blocks until it fails or a
// shutdown signal (SIGINT, SIGTERM) arrives, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Str("base_path", s.Config.Server.BasePath).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests to finish, then closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}
