// Package media stores uploaded item images on disk, downscaled and
// re-encoded, and hands back the URL path they are served from.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxUploadBytes is the upload size limit.
const MaxUploadBytes = 5 << 20

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 500

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// URLPrefix is where stored images are served from.
const URLPrefix = "/uploads/"

// ErrUnsupportedFormat is returned when the data is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Store persists processed images in a single directory.
type Store struct {
	Dir string
}

// NewStore creates the upload directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save reads image data, validates the format by sniffing bytes, downscales
// if larger than MaxDimension, re-encodes as JPEG, and writes the result
// under a random name. It returns the URL path of the stored image.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading image data: %w", err)
	}

	// Sniff the actual MIME type from bytes, not client headers.
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", ErrUnsupportedFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedFormat
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encoding JPEG: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return URLPrefix + name, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, using
// Catmull-Rom interpolation. Returns the original image if already within
// bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
