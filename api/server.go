package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, opts ...RouterOption) (Server, error) {
	startupTime := time.Now()
	opts = append([]RouterOption{withStartupTime(startupTime)}, opts...)

	rt := applyOptions(opts)
	mux, err := newRouter(database, opts...)
	if err != nil {
		return Server{}, err
	}

	port := config.GetString(rt.config, "PORT", "5000")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	readTimeout := time.Duration(config.GetInt(rt.config, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(rt.config, "WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(config.GetInt(rt.config, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	identity    *services.Identity
	images      services.ImageStore
	dispatcher  *services.Dispatcher
}

// RouterOption configures the router built by NewServer.
type RouterOption func(*router)

func WithConfig(c map[string]string) RouterOption {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) RouterOption {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func WithIdentity(identity *services.Identity) RouterOption {
	return func(r *router) {
		r.identity = identity
	}
}

func WithImageStore(images services.ImageStore) RouterOption {
	return func(r *router) {
		r.images = images
	}
}

// WithDispatcher sets where new contact messages are announced. Without one, messages are
// stored silently.
func WithDispatcher(dispatcher *services.Dispatcher) RouterOption {
	return func(r *router) {
		r.dispatcher = dispatcher
	}
}

func applyOptions(opts []RouterOption) *router {
	rt := &router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.config == nil {
		rt.config = config.New()
	}
	return rt
}

func newRouter(database database.Database, opts ...RouterOption) (*chi.Mux, error) {
	rt := applyOptions(opts)

	if rt.identity == nil {
		identity, err := services.NewIdentity(database,
			config.GetString(rt.config, "JWT_SECRET", ""),
			config.GetDuration(rt.config, "JWT_EXPIRES_IN", services.DefaultTokenTTL))
		if err != nil {
			return nil, err
		}
		rt.identity = identity
	}
	if rt.images == nil {
		images, err := services.NewLocalImageStore(
			config.GetString(rt.config, "UPLOAD_DIR", "uploads"),
			config.GetString(rt.config, "PUBLIC_BASE_URL", ""))
		if err != nil {
			return nil, err
		}
		rt.images = images
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestLogger(log.Logger))

	acceptedOrigins := config.GetList(rt.config, "ACCEPTED_ORIGINS")
	for i, origin := range acceptedOrigins {
		acceptedOrigins[i] = strings.TrimSuffix(origin, "/")
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	responder := NewResponder(log.Logger)
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewRouteNotFoundError(r.URL.Path))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path)))
	})

	if local, ok := rt.images.(*services.LocalImageStore); ok {
		fs := http.StripPrefix(services.UploadsRoute, http.FileServer(http.Dir(local.Dir())))
		chiRouter.Handle(services.UploadsRoute+"*", fs)
	}

	production := config.GetString(rt.config, "APP_ENV", "development") == "production"
	limits := newLimits(production,
		config.GetInt(rt.config, "RATE_LIMIT_API_MAX", 0),
		config.GetInt(rt.config, "RATE_LIMIT_AUTH_MAX", 0),
		config.GetInt(rt.config, "RATE_LIMIT_CONTACT_MAX", 0))

	handlers := initializeHandlers(database, rt)
	setupRoutes(chiRouter, handlers, newAuthMiddleware(rt.identity), limits)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
