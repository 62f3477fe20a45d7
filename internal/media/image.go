package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	// decoders accepted for post images
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// InvalidImageMessage is shown on the image field when an upload is rejected.
const InvalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// ErrInvalidImage is returned when an upload is not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

// Upload is an image accepted by ValidateImage.
type Upload struct {
	ContentType string
	Extension   string
	Width       int
	Height      int
	Data        []byte
}

// ValidateImage checks that data is a genuine image: the sniffed content type
// must be an image type and the header must decode with one of the
// registered decoders. The declared file name and content type are ignored.
func ValidateImage(data []byte, maxBytes int64) (*Upload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidImage, len(data), maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidImage, mtype.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrInvalidImage, format)
	}

	return &Upload{
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Width:       cfg.Width,
		Height:      cfg.Height,
		Data:        data,
	}, nil
}

// NewImageName returns a fresh storage key under the posts/ prefix.
func NewImageName(ext string) string {
	return "posts/" + uuid.NewString() + ext
}
