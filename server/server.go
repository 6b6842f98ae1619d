// Package server exposes the REST gateway mapping inbound requests to
// the YouTube operations and serializing their results.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ytbridge/youtube"
)

// Operations is the remote-call surface the gateway depends on.
// *youtube.Client satisfies this.
type Operations interface {
	Search(ctx context.Context, query string, limit int64) ([]youtube.Video, error)
	Liked(ctx context.Context, limit int64) ([]youtube.Video, error)
	Like(ctx context.Context, videoURL string) (string, error)
	Comment(ctx context.Context, videoURL, text string) (string, error)
	Subscribe(ctx context.Context, videoURL string) (string, error)
}

// Recommender produces recommendations; recommend.Strategy satisfies this.
type Recommender interface {
	Recommend(ctx context.Context, limit int) ([]youtube.Video, error)
}

// Options carries per-route defaults.
type Options struct {
	// SearchLimit is the number of search results per request.
	SearchLimit int64
	// LikedLimit is the number of liked videos per request.
	LikedLimit int64
	// RecommendLimit is the number of recommendations per request.
	RecommendLimit int
	// RequestTimeout bounds each request; a timeout surfaces as a
	// network error.
	RequestTimeout time.Duration
}

// Server is the HTTP gateway.
type Server struct {
	echo *echo.Echo
	ops  Operations
	rec  Recommender
	opts Options
}

// New creates the gateway with routes registered.
func New(ops Operations, rec Recommender, opts Options) *Server {
	if opts.SearchLimit < 1 {
		opts.SearchLimit = 5
	}
	if opts.LikedLimit < 1 {
		opts.LikedLimit = 10
	}
	if opts.RecommendLimit < 1 {
		opts.RecommendLimit = 10
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{echo: e, ops: ops, rec: rec, opts: opts}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/search", s.handleSearch)
	s.echo.GET("/liked", s.handleLiked)
	s.echo.GET("/recommend", s.handleRecommend)
	s.echo.GET("/like", s.handleLike)
	s.echo.GET("/comment", s.handleComment)
	s.echo.GET("/subscribe", s.handleSubscribe)
}

// Start runs the gateway until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Printf("server: listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the gateway gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
