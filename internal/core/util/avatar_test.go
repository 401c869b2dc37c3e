package util_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"taskapp/internal/core/util"

	"github.com/stretchr/testify/assert"
)

func encode(t *testing.T, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))

	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	}

	assert.NoError(t, err)

	return buf.Bytes()
}

func TestAllowedAvatarFile(t *testing.T) {
	assert.True(t, util.AllowedAvatarFile("me.png"))
	assert.True(t, util.AllowedAvatarFile("me.jpg"))
	assert.True(t, util.AllowedAvatarFile("ME.JPEG"))

	assert.False(t, util.AllowedAvatarFile("me.gif"))
	assert.False(t, util.AllowedAvatarFile("me.pdf"))
	assert.False(t, util.AllowedAvatarFile("me"))
}

func TestNormalizeAvatarResizesToSquarePNG(t *testing.T) {
	for _, format := range []string{"png", "jpeg"} {
		normalized, err := util.NormalizeAvatar(encode(t, format))

		assert.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(normalized))
		assert.NoError(t, err)
		assert.Equal(t, 250, img.Bounds().Dx())
		assert.Equal(t, 250, img.Bounds().Dy())
	}
}

func TestNormalizeAvatarRejectsGarbage(t *testing.T) {
	_, err := util.NormalizeAvatar([]byte("plain text"))

	assert.ErrorIs(t, err, util.ErrInvalidImage)
}
