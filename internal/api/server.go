package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"oglasnik/importer/internal/config"
	"oglasnik/importer/internal/domain"
	"oglasnik/importer/internal/fetch"
	"oglasnik/importer/internal/service"
)

// Server exposes the import pipeline over HTTP.
type Server struct {
	engine  *gin.Engine
	service *service.Service
	addr    string
}

func NewServer(cfg config.ServerConfig, svc *service.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine:  engine,
		service: svc,
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api")
	api.POST("/import", s.importListing)
	api.POST("/import/batch", s.importBatch)
	api.GET("/import/status/:id", s.importStatus)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP API listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type importRequest struct {
	URL string `json:"url" binding:"required"`
}

// importListing handles POST /api/import: one URL, imported synchronously.
func (s *Server) importListing(ctx *gin.Context) {
	var req importRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, domain.ImportResult{
			Error: "Zahtjev mora sadržavati polje url",
		})
		return
	}

	listing, err := s.service.ImportListing(ctx.Request.Context(), req.URL)
	if err != nil {
		status, result := resultForError(err)
		ctx.JSON(status, result)
		return
	}

	ctx.JSON(http.StatusOK, domain.ImportResult{
		Success: true,
		Data:    listing,
	})
}

type batchRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// importBatch handles POST /api/import/batch: URLs are queued and
// processed by the workers; the reply carries the job ID to poll.
func (s *Server) importBatch(ctx *gin.Context) {
	var req batchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Zahtjev mora sadržavati listu urls"})
		return
	}

	jobID, err := s.service.EnqueueBatch(ctx.Request.Context(), req.URLs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Nijedan od navedenih URL-ova nije ispravan"})
			return
		}
		log.Errorf("Failed to enqueue batch: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Dodavanje u red čekanja nije uspjelo"})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

// importStatus handles GET /api/import/status/:id.
func (s *Server) importStatus(ctx *gin.Context) {
	jobID := ctx.Param("id")

	status, err := s.service.JobStatus(ctx.Request.Context(), jobID)
	if err != nil {
		log.Errorf("Failed to read status for job %s: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Čitanje statusa nije uspjelo"})
		return
	}
	if status == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Nepoznat posao"})
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// resultForError maps pipeline failures onto user-facing messages and
// hints. Retrieval failures keep their kind-specific wording; everything
// else collapses to a generic import failure.
func resultForError(err error) (int, domain.ImportResult) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, domain.ImportResult{
			Error: "Navedeni URL nije ispravan",
			Hint:  "Provjerite adresu oglasa i pokušajte ponovo",
		}
	case errors.Is(err, service.ErrInsufficientContent):
		return http.StatusUnprocessableEntity, domain.ImportResult{
			Error: "Stranica ne sadrži dovoljno podataka o oglasu",
			Hint:  "Oglas možete unijeti ručno",
		}
	case errors.Is(err, service.ErrNoTitle):
		return http.StatusInternalServerError, domain.ImportResult{
			Error: "Iz stranice nije bilo moguće izvući naslov oglasa",
			Hint:  "Oglas možete unijeti ručno",
		}
	}

	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		switch fetchErr.Kind {
		case fetch.KindTimeout:
			return http.StatusGatewayTimeout, domain.ImportResult{
				Error: "Stranica se nije učitala na vrijeme",
				Hint:  "Pokušajte ponovo za nekoliko minuta",
			}
		case fetch.KindBlocked:
			return http.StatusBadGateway, domain.ImportResult{
				Error: "Izvorna stranica je blokirala pristup",
				Hint:  "Oglas možete unijeti ručno",
			}
		case fetch.KindRateLimited:
			return http.StatusTooManyRequests, domain.ImportResult{
				Error: "Previše zahtjeva prema izvornoj stranici",
				Hint:  "Sačekajte nekoliko minuta pa pokušajte ponovo",
			}
		}
	}

	return http.StatusBadGateway, domain.ImportResult{
		Error: "Preuzimanje oglasa nije uspjelo",
		Hint:  "Provjerite adresu oglasa ili ga unesite ručno",
	}
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Infof("%s %s -> %d (%s)",
			ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start))
	}
}
