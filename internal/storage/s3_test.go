package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", BaseURL("", "media", "eu-west-1"))
	assert.Equal(t, "http://localhost:9000/media", BaseURL("http://localhost:9000/", "media", "us-east-1"))
}

func TestMediaKey(t *testing.T) {
	assert.Equal(t, "posts/u1/f1.png", MediaKey("u1", "f1", ".PNG"))
}
