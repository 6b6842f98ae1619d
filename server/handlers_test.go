package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbridge/youtube"
)

// --- Mock operations ---

type mockOps struct {
	searchResult []youtube.Video
	searchErr    error
	searchQuery  string
	searchLimit  int64

	likedResult []youtube.Video
	likedErr    error

	likeMsg string
	likeErr error
	likeURL string

	commentMsg  string
	commentErr  error
	commentText string

	subscribeMsg string
	subscribeErr error
}

func (m *mockOps) Search(_ context.Context, query string, limit int64) ([]youtube.Video, error) {
	m.searchQuery = query
	m.searchLimit = limit
	return m.searchResult, m.searchErr
}

func (m *mockOps) Liked(_ context.Context, limit int64) ([]youtube.Video, error) {
	return m.likedResult, m.likedErr
}

func (m *mockOps) Like(_ context.Context, videoURL string) (string, error) {
	m.likeURL = videoURL
	return m.likeMsg, m.likeErr
}

func (m *mockOps) Comment(_ context.Context, videoURL, text string) (string, error) {
	m.commentText = text
	return m.commentMsg, m.commentErr
}

func (m *mockOps) Subscribe(_ context.Context, videoURL string) (string, error) {
	return m.subscribeMsg, m.subscribeErr
}

type mockRecommender struct {
	result []youtube.Video
	err    error
	limit  int
}

func (m *mockRecommender) Recommend(_ context.Context, limit int) ([]youtube.Video, error) {
	m.limit = limit
	return m.result, m.err
}

func doRequest(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSearchReturnsVideoList(t *testing.T) {
	ops := &mockOps{searchResult: []youtube.Video{
		{ID: "dQw4w9WgXcQ", Title: "A Video", ChannelTitle: "A Channel"},
	}}
	s := New(ops, &mockRecommender{}, Options{SearchLimit: 5})

	rec := doRequest(t, s, "/search?query=rust+tutorials")

	require.Equal(t, http.StatusOK, rec.Code)
	var videos []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", videos[0]["videoId"])
	assert.Equal(t, "A Video", videos[0]["title"])
	assert.Equal(t, "A Channel", videos[0]["channelTitle"])
	assert.Equal(t, "rust tutorials", ops.searchQuery)
	assert.Equal(t, int64(5), ops.searchLimit)
}

func TestSearchEmptyResultIsEmptyList(t *testing.T) {
	s := New(&mockOps{}, &mockRecommender{}, Options{})

	rec := doRequest(t, s, "/search?query=whatever")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestErrorKindDrivesStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *youtube.Error
		status int
	}{
		{"invalid input", &youtube.Error{Kind: youtube.KindInvalidInput, Message: "limit"}, http.StatusBadRequest},
		{"invalid reference", &youtube.Error{Kind: youtube.KindInvalidReference, Message: "no id"}, http.StatusBadRequest},
		{"not found", &youtube.Error{Kind: youtube.KindNotFound, Message: "gone"}, http.StatusNotFound},
		{"permission denied", &youtube.Error{Kind: youtube.KindPermissionDenied, Message: "nope"}, http.StatusForbidden},
		{"quota exceeded", &youtube.Error{Kind: youtube.KindQuotaExceeded, Message: "quota"}, http.StatusTooManyRequests},
		{"auth", &youtube.Error{Kind: youtube.KindAuth, Message: "no creds"}, http.StatusUnauthorized},
		{"network", &youtube.Error{Kind: youtube.KindNetwork, Message: "timeout"}, http.StatusBadGateway},
		{"remote", &youtube.Error{Kind: youtube.KindRemote, Message: "weird"}, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&mockOps{searchErr: tc.err}, &mockRecommender{}, Options{})

			rec := doRequest(t, s, "/search?query=x")

			require.Equal(t, tc.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Message, body["error"])
		})
	}
}

func TestLikeSuccess(t *testing.T) {
	ops := &mockOps{likeMsg: "Liked video dQw4w9WgXcQ."}
	s := New(ops, &mockRecommender{}, Options{})

	rec := doRequest(t, s, "/like?videoUrl=https://youtu.be/dQw4w9WgXcQ")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Liked video dQw4w9WgXcQ.", body["message"])
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", ops.likeURL)
}

func TestCommentPassesText(t *testing.T) {
	ops := &mockOps{commentMsg: "done"}
	s := New(ops, &mockRecommender{}, Options{})

	rec := doRequest(t, s, "/comment?videoUrl=https://youtu.be/dQw4w9WgXcQ&text=nice+video")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nice video", ops.commentText)
}

func TestRecommendUsesConfiguredLimit(t *testing.T) {
	rec := &mockRecommender{result: []youtube.Video{{ID: "result00001"}}}
	s := New(&mockOps{}, rec, Options{RecommendLimit: 7})

	resp := doRequest(t, s, "/recommend")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 7, rec.limit)
}

func TestSubscribeError(t *testing.T) {
	ops := &mockOps{subscribeErr: &youtube.Error{Kind: youtube.KindNotFound, Message: "no channel found for video x"}}
	s := New(ops, &mockRecommender{}, Options{})

	rec := doRequest(t, s, "/subscribe?videoUrl=https://youtu.be/dQw4w9WgXcQ")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := New(&mockOps{}, &mockRecommender{}, Options{})

	rec := doRequest(t, s, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
}
