// Package server exposes the clause-risk scanner over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/accrava/clausescan/internal/decode"
	"github.com/accrava/clausescan/internal/logging"
	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/scanner"
)

// DefaultMaxUpload caps request documents when Options.MaxBytes is unset.
const DefaultMaxUpload = 1 << 20

// envelopeAllowance is the room left for multipart headers and JSON quoting
// on top of the document cap.
const envelopeAllowance = 64 << 10

type Options struct {
	MaxBytes int64
}

type Server struct {
	sc       *scanner.Scanner
	maxBytes int64
}

type scanRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(sc *scanner.Scanner, opts Options) *Server {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxUpload
	}
	return &Server{sc: sc, maxBytes: limit}
}

// Router builds the gin engine with request logging and recovery.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := r.Group("/v1")
	v1.GET("/rules", s.handleRules)
	v1.POST("/scan", s.handleScan)
	v1.POST("/scan/upload", s.handleUpload)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.Logger.Infow("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRules(c *gin.Context) {
	rs := s.sc.Rules()
	out := make([]rules.Spec, len(rs))
	for i, r := range rs {
		out[i] = r.Spec()
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleScan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+envelopeAllowance)
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if int64(len(req.Text)) > s.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "text exceeds size limit"})
		return
	}
	c.JSON(http.StatusOK, s.sc.Scan(req.Text))
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+envelopeAllowance)
	fh, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "upload exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing file field: " + err.Error()})
		return
	}
	if fh.Size > s.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "upload exceeds size limit"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sc.Scan(decode.Bytes(b)))
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Logger.Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
