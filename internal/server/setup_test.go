package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vueblog/internal/config"
	"vueblog/internal/database"
	"vueblog/internal/models"
	"vueblog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer wires the full route table onto an in-memory sqlite
// store. Rate limits are bypassed through APP_ENV=test.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		Port:            "8000",
		PageSize:        4,
		MediaRoot:       t.TempDir(),
		MediaURL:        "/media",
		MaxUploadSizeMB: 10,
		Env:             "test",
	}

	s := newServerWithDB(cfg, db, nil)
	app := s.NewApp()
	s.SetupRoutes(app)
	return s, app
}

// registerTestUser creates a user through the registration service and
// returns it together with its auth token key.
func registerTestUser(t *testing.T, s *Server, username string) (*models.User, string) {
	t.Helper()
	user, token, err := s.users.Register(context.Background(), validation.Registration{
		Username:        username,
		FirstName:       "Test",
		LastName:        "User",
		Email:           username + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return user, token.Key
}

// seedPost inserts a post directly, bypassing the service, so tests can
// control the created timestamp and flags.
func seedPost(t *testing.T, s *Server, author *models.User, title string, created time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Slug:     "seeded",
		Body:     "seeded body",
		AuthorID: author.ID,
		Created:  created,
	}
	require.NoError(t, s.db.Create(post).Error)
	return post
}

func jsonRequest(method, path string, body any, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	return req
}

// formRequest builds a multipart form request for the post endpoints. A
// non-nil image is attached under the "image" field.
func formRequest(t *testing.T, method, path string, fields map[string]string, image []byte, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "upload.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	return req
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// decodeList unmarshals a JSON array response body.
func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// fieldMessages flattens the error envelope into field->message for
// assertions.
func fieldMessages(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body := decodeBody(t, resp)
	raw, ok := body["errors"].([]any)
	require.True(t, ok, "expected errors envelope, got %v", body)
	out := make(map[string]any, len(raw))
	for _, e := range raw {
		entry, ok := e.(map[string]any)
		require.True(t, ok)
		out[entry["field"].(string)] = entry["message"]
	}
	return out
}
