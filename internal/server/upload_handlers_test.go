package server

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concord/internal/models"
)

type memBlobStore struct {
	objects map[string][]byte
}

func (m *memBlobStore) Put(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	key := "uploads/test-object"
	m.objects[key] = data
	return "https://blobs.test/" + key, key, nil
}

func (m *memBlobStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func multipartImage(t *testing.T, field, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="pic.png"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	s, db := setupTestServer(t)
	users := createTestUsers(t, db, "alice")
	store := &memBlobStore{}
	s.SetBlobStore(store)

	app := newTestApp(users[0].ID)
	app.Post("/upload", s.UploadImage)
	app.Delete("/upload/+", s.DeleteImage)

	body, contentType := multipartImage(t, "image", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, "https://blobs.test/uploads/test-object", result.URL)
	assert.Contains(t, store.objects, result.PublicID)

	resp = doJSON(t, app, http.MethodDelete, "/upload/"+result.PublicID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotContains(t, store.objects, result.PublicID)
}

func TestUploadImage_Rejections(t *testing.T) {
	s, db := setupTestServer(t)
	users := createTestUsers(t, db, "alice")

	app := newTestApp(users[0].ID)
	app.Post("/upload", s.UploadImage)

	t.Run("no blob store configured", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "image/png", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	s.SetBlobStore(&memBlobStore{})

	t.Run("missing file field", func(t *testing.T) {
		body, contentType := multipartImage(t, "document", "image/png", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "application/pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload models.ErrorResponse
		decodeJSON(t, resp, &payload)
		assert.Equal(t, models.CodeValidation, payload.Code)
	})
}
