package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDropsRawHTML(t *testing.T) {
	p := NewParser()

	out, err := p.Parse([]byte("Built with **Go**\n\n<script>alert(1)</script>"))
	require.NoError(t, err)

	assert.Contains(t, string(out), "<strong>Go</strong>")
	assert.NotContains(t, string(out), "<script>")
}

func TestParseWithFrontmatter(t *testing.T) {
	p := NewParser()

	src := "---\ntitle: Privacy Policy\nupdated: 2025-01-01\n---\n# Data\n\nWe store posts."
	out, meta, err := p.ParseWithFrontmatter([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "Privacy Policy", meta["title"])
	assert.Contains(t, string(out), "We store posts.")
	assert.NotContains(t, string(out), "title:")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	_, meta, err := NewParser().ParseWithFrontmatter([]byte("plain"))
	require.NoError(t, err)
	assert.Empty(t, meta)
}
