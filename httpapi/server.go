// Package httpapi exposes the file service over HTTP.
//
// The surface is a small Fiber application: multipart upload, streamed
// download, rename, delete and the two listing endpoints. The requester
// identity is taken from the X-User-Id header as an opaque value;
// authentication happens upstream.
package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guapman/storage-service/logger"
)

// Server is the HTTP front of the file service.
type Server struct {
	cfg        Config
	router     *fiber.App
	listenAddr string
}

// New creates a Server with the provided configuration and wires all routes.
func New(cfg Config, svc FileService, log logger.Logger) *Server {
	router := fiber.New(fiber.Config{
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
		DisableStartupMessage:    true,
		BodyLimit:                cfg.BodyLimit,
		StreamRequestBody:        true,
		EnableSplittingOnParsers: true,
	})

	router.Use(newLoggerMW(log.Named("httpapi")))

	h := &handlers{svc: svc, cfg: cfg}

	router.Get("/healthz", h.health)

	api := router.Group("/api/v1/files")
	api.Post("/", h.upload)
	api.Get("/public", h.listPublic)
	api.Get("/my", h.listOwned)
	api.Get("/:fileId", h.download)
	api.Patch("/:fileId/name", h.rename)
	api.Delete("/:fileId", h.remove)

	return &Server{
		cfg:        cfg,
		router:     router,
		listenAddr: cfg.Address(),
	}
}

// Start begins listening for incoming HTTP requests on the configured address.
func (s *Server) Start() error {
	return s.router.Listen(s.listenAddr)
}

// Stop gracefully stops the server, allowing ongoing requests to complete.
func (s *Server) Stop() error {
	return s.router.Shutdown()
}
