package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImageURL(t *testing.T) {
	base := "http://localhost:8080/"
	assert.Equal(t, "http://localhost:8080/uploads/a.png", ResolveImageURL(base, `uploads\a.png`))
	assert.Equal(t, "http://localhost:8080/uploads/a.png", ResolveImageURL(base, "/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/b.jpg", ResolveImageURL(base, "https://cdn.example.com/b.jpg"))
	assert.Empty(t, ResolveImageURL(base, ""))
}
