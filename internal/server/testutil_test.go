package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"concord/internal/config"
	"concord/internal/database"
)

func setupTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test_secret", Port: "0", Env: "test"}
	return NewServerWithDeps(cfg, db, nil), db
}

// newTestApp returns a Fiber app with the caller authenticated as userID.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func registerConnectionRoutes(app *fiber.App, s *Server) {
	app.Get("/connections", s.GetConnections)
	app.Post("/connections/requests/:userId", s.SendConnectionRequest)
	app.Get("/connections/requests", s.GetPendingRequests)
	app.Post("/connections/requests/:userId/accept", s.AcceptConnectionRequest)
	app.Post("/connections/requests/:userId/reject", s.RejectConnectionRequest)
	app.Get("/connections/status/:userId", s.GetConnectionStatus)
	app.Delete("/connections/:userId", s.RemoveConnection)
}

func registerPostRoutes(app *fiber.App, s *Server) {
	app.Get("/posts", s.GetFeed)
	app.Post("/posts", s.CreatePost)
	app.Get("/posts/saved", s.GetSavedPosts)
	app.Post("/posts/:id/like", s.ToggleLike)
	app.Get("/posts/:id/comments", s.GetComments)
	app.Post("/posts/:id/comments", s.CreateComment)
	app.Post("/posts/:id/share", s.SharePost)
	app.Post("/posts/:id/save", s.SavePost)
	app.Delete("/posts/:id/save", s.UnsavePost)
	app.Get("/posts/:id", s.GetPost)
	app.Put("/posts/:id", s.UpdatePost)
	app.Delete("/posts/:id", s.DeletePost)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
