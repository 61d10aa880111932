package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/metrics"
	"github.com/prn-tf/photofeed/internal/repository/memory"
	"github.com/prn-tf/photofeed/internal/service"
	"github.com/prn-tf/photofeed/internal/storage/filesystem"
)

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()
	m := metrics.New()
	repos := memory.NewRepositories()

	backend, err := filesystem.New(t.TempDir(), logger)
	require.NoError(t, err)

	users := service.NewUserService(repos.User, m, logger)
	posts := service.NewPostService(repos.Post, users, m, logger)
	images := service.NewImageService(repos.Image, posts, backend, m, logger)

	router := NewRouter(RouterConfig{
		UserHandler:  NewUserHandler(users, logger),
		PostHandler:  NewPostHandler(posts, logger),
		ImageHandler: NewImageHandler(images, 1<<20, logger),
		Metrics:      m,
		MetricsPath:  "/metrics",
		Logger:       logger,
	})

	return &testServer{handler: router.Handler(), metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, postID int64, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(imageField, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/images", postID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestUsersAPI(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/users", map[string]string{
		"email": "cat@example.com", "username": "cat", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret")
	created := decode[domain.User](t, rec)
	require.Equal(t, int64(1), created.ID)

	rec = s.do(t, http.MethodPost, "/users", map[string]string{"email": "cat@example.com"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotEmpty(t, decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/users", map[string]string{"username": "nobody"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/users", map[string]any{"id": created.ID, "username": "tom"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tom", decode[domain.User](t, rec).Username)

	rec = s.do(t, http.MethodPut, "/users", map[string]any{"username": "tom"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/users", map[string]any{"id": 99, "username": "tom"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cat@example.com", decode[domain.User](t, rec).Email)

	rec = s.do(t, http.MethodGet, "/users/2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]domain.User](t, rec), 1)
}

func TestUsersAPI_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostsAPI(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/users", map[string]string{"email": "author@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 5, "description": "hi"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 1, "description": " "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 1; i <= 3; i++ {
		rec = s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 1, "description": fmt.Sprintf("post %d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, int64(i), decode[domain.Post](t, rec).ID)
	}

	rec = s.do(t, http.MethodPut, "/posts", map[string]any{"id": 2, "authorId": 1, "description": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "edited", decode[domain.Post](t, rec).Description)

	rec = s.do(t, http.MethodGet, "/posts/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "edited", decode[domain.Post](t, rec).Description)

	rec = s.do(t, http.MethodGet, "/posts/9", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	tests := []struct {
		query      string
		wantStatus int
		wantIDs    []int64
	}{
		{"", http.StatusOK, []int64{3, 2, 1}},
		{"?sort=asc", http.StatusOK, []int64{1, 2, 3}},
		{"?sort=ASC&from=1&size=1", http.StatusOK, []int64{2}},
		{"?from=10", http.StatusOK, []int64{}},
		{"?size=0", http.StatusOK, []int64{}},
		{"?sort=sideways", http.StatusBadRequest, nil},
		{"?from=-1", http.StatusBadRequest, nil},
		{"?size=-5", http.StatusBadRequest, nil},
		{"?size=ten", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/posts"+tt.query, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			posts := decode[[]domain.Post](t, rec)
			ids := make([]int64, 0, len(posts))
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestImagesAPI(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/users", map[string]string{"email": "a@example.com"}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 1, "description": "cats"}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 1, "description": "dogs"}).Code)

	rec := s.upload(t, 1, map[string][]byte{"cat.png": []byte("png data")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[[]domain.Image](t, rec)
	require.Len(t, saved, 1)
	require.Equal(t, "cat.png", saved[0].OriginalFileName)

	rec = s.upload(t, 2, map[string][]byte{"dog.jpg": []byte("jpg data")})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.upload(t, 77, map[string][]byte{"x.png": []byte("x")})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.upload(t, 1, map[string][]byte{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/posts/1/images", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]domain.Image](t, rec)
	require.Equal(t, saved, listed)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/images/%d", saved[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []byte("png data"), rec.Body.Bytes())
	require.Equal(t, `attachment; filename=cat.png`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/images/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.Remove(saved[0].FilePath))
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/images/%d", saved[0].ID), nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.NotContains(t, body.Error, saved[0].FilePath)
}

func TestImagesAPI_UploadTooLarge(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/users", map[string]string{"email": "a@example.com"}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/posts", map[string]any{"authorId": 1, "description": "big"}).Code)

	rec := s.upload(t, 1, map[string][]byte{"huge.png": bytes.Repeat([]byte("x"), 2<<20)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/users", nil)
	s.do(t, http.MethodGet, "/users/7", nil)

	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/users", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/users/{userId}", "404")))

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "photofeed_store_operations_total")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/comments", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/users", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
