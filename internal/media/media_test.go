package media

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return &buf
}

func TestSaveStoresImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	url, err := store.Save(encodePNG(t, 10, 10))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, URLPrefix) || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("unexpected URL %q", url)
	}

	path := filepath.Join(store.Dir, strings.TrimPrefix(url, URLPrefix))
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestSaveDownscalesLargeImages(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	url, err := store.Save(encodePNG(t, 1200, 800))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(store.Dir, strings.TrimPrefix(url, URLPrefix))
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening stored image: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding stored image: %v", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		t.Errorf("image not downscaled: %dx%d", cfg.Width, cfg.Height)
	}
	// Aspect ratio preserved: 1200x800 becomes 500x333.
	if cfg.Width != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, cfg.Width)
	}
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	_, err = store.Save(strings.NewReader("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
