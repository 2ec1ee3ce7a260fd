package validation

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("123456"))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("a", 73)), ErrPasswordTooLong)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("test@example.com"))
	assert.ErrorIs(t, ValidateEmail(""), ErrEmailEmpty)
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrEmailInvalid)
	assert.ErrorIs(t, ValidateEmail("Ada <ada@example.com>"), ErrEmailInvalid)
	assert.ErrorIs(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"), ErrEmailTooLong)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assert.NoError(t, ValidateName(strings.Repeat("é", 100)), "length counts characters")
	assert.ErrorIs(t, ValidateName("   "), ErrNameEmpty)
	assert.ErrorIs(t, ValidateName(strings.Repeat("n", 101)), ErrNameTooLong)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL(""))
	assert.NoError(t, ValidateURL("https://github.com/user/repo"))
	assert.NoError(t, ValidateURL("http://example.com/image.png"))
	assert.Error(t, ValidateURL("javascript:alert(1)"))
	assert.Error(t, ValidateURL("ftp://example.com/file"))
	assert.Error(t, ValidateURL("github.com/user/repo"))
}

func TestSniffMedia(t *testing.T) {
	png, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)

	reader := bytes.NewReader(png)
	mime, err := SniffMedia(reader, PostMedia)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	pos, err := reader.Seek(0, 1)
	require.NoError(t, err)
	assert.Zero(t, pos, "reader is rewound for the upload")

	_, err = SniffMedia(strings.NewReader("<html>not an image</html>"), PostMedia)
	assert.Error(t, err)

	_, err = SniffMedia(strings.NewReader(""), PostMedia)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
