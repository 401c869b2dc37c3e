package util

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid image")

const (
	AvatarMaxBytes    = 1 << 20
	AvatarContentType = "image/png"

	avatarSize = 250
)

func AllowedAvatarFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}

	return false
}

// NormalizeAvatar decodes an uploaded image and re-encodes it as a
// fixed-size square PNG thumbnail.
func NormalizeAvatar(upload []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(upload))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	thumb := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)

	var buf bytes.Buffer

	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding avatar thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
