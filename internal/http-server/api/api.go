package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"cookiegate/internal/config"
	"cookiegate/internal/http-server/handlers/errors"
	"cookiegate/internal/http-server/handlers/registry"
	"cookiegate/internal/http-server/handlers/status"
	"cookiegate/internal/http-server/middleware/authenticate"
	"cookiegate/internal/http-server/middleware/timeout"
	"cookiegate/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler is the core surface exposed over HTTP: read-only admin views
// mirroring the bot's /stats, /users and /codes commands.
type Handler interface {
	status.Core
	registry.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Use(authenticate.New(log, conf.Api.Token))
		rootApi.Get("/status", status.Stats(log, handler))
		rootApi.Get("/users", registry.Users(log, handler))
		rootApi.Get("/codes", registry.Codes(log, handler))
		rootApi.Post("/codes", registry.Generate(log, handler))
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
