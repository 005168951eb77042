// Package server exposes stored SAR records and their generated documents
// over HTTP.
package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fincomply/sarforge/internal/service"
)

// Server is the sarforge web server.
type Server struct {
	store    service.RecordStore
	xmlGen   service.XMLGenerator
	pdfGen   service.PDFGenerator
	logger   *slog.Logger
	router   *gin.Engine
	template []byte
	debug    bool
}

// Options configures a Server.
type Options struct {
	Store    service.RecordStore
	XMLGen   service.XMLGenerator
	PDFGen   service.PDFGenerator
	Logger   *slog.Logger
	Template []byte
	Debug    bool
}

// NewServer creates the web server and registers its routes.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:    opts.Store,
		xmlGen:   opts.XMLGen,
		pdfGen:   opts.PDFGen,
		logger:   opts.Logger,
		template: opts.Template,
		debug:    opts.Debug,
	}

	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	router.GET("/", s.handleIndex)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/records", s.handleListRecords)
		api.GET("/records/:id", s.handleGetRecord)
		api.GET("/records/:id/xml", s.handleDownloadXML)
		api.GET("/records/:id/pdf", s.handleDownloadPDF)
	}

	s.router = router
	return s
}

// Handler returns the underlying HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the web server on addr and blocks until it exits.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return s.router.Run(addr)
}
