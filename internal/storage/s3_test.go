package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLFor(t *testing.T) {
	t.Run("custom public origin", func(t *testing.T) {
		s := &S3Store{bucket: "media", publicOrigin: "https://cdn.example.com"}
		assert.Equal(t, "https://cdn.example.com/uploads/a.jpg", s.urlFor("uploads/a.jpg"))
	})

	t.Run("default bucket URL", func(t *testing.T) {
		s := &S3Store{bucket: "media"}
		assert.Equal(t, "https://media.s3.amazonaws.com/uploads/a.jpg", s.urlFor("uploads/a.jpg"))
	})
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, "", extensionFor("application/octet-stream"))
}
