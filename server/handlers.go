package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ytbridge/youtube"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(c echo.Context) error {
	query := c.QueryParam("query")

	ctx, cancel := s.requestContext(c)
	defer cancel()

	videos, err := s.ops.Search(ctx, query, s.opts.SearchLimit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, videoList(videos))
}

func (s *Server) handleLiked(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	videos, err := s.ops.Liked(ctx, s.opts.LikedLimit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, videoList(videos))
}

func (s *Server) handleRecommend(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	videos, err := s.rec.Recommend(ctx, s.opts.RecommendLimit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, videoList(videos))
}

func (s *Server) handleLike(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	msg, err := s.ops.Like(ctx, c.QueryParam("videoUrl"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) handleComment(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	msg, err := s.ops.Comment(ctx, c.QueryParam("videoUrl"), c.QueryParam("text"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) handleSubscribe(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	msg, err := s.ops.Subscribe(ctx, c.QueryParam("videoUrl"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.opts.RequestTimeout)
}

// videoList keeps an empty result as [] rather than null in JSON.
func videoList(videos []youtube.Video) []youtube.Video {
	if videos == nil {
		return []youtube.Video{}
	}
	return videos
}

// writeError maps the classified error kind to an HTTP status. Routing
// decisions never parse message text.
func writeError(c echo.Context, err error) error {
	status := http.StatusBadGateway

	var apiErr *youtube.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case youtube.KindInvalidInput, youtube.KindInvalidReference:
			status = http.StatusBadRequest
		case youtube.KindNotFound:
			status = http.StatusNotFound
		case youtube.KindPermissionDenied:
			status = http.StatusForbidden
		case youtube.KindQuotaExceeded:
			status = http.StatusTooManyRequests
		case youtube.KindAuth:
			status = http.StatusUnauthorized
		case youtube.KindNetwork, youtube.KindRemote:
			status = http.StatusBadGateway
		}
	}

	return c.JSON(status, errorResponse{Error: err.Error()})
}
