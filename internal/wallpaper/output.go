package wallpaper

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// OutputFormat returns the encoder for path's extension.
func OutputFormat(path string) (imaging.Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("output %q: %w", path, err)
	}
	return f, nil
}

// WriteImage encodes img into path and returns the absolute path written.
// The image is encoded into a temporary file next to path which is then
// renamed over it, so a failed encode never leaves a truncated wallpaper.
func WriteImage(path string, img image.Image) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	format, err := OutputFormat(abs)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))+"-*"+filepath.Ext(abs))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := imaging.Encode(tmp, img, format); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("encode %s: %w", abs, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", fmt.Errorf("replace %s: %w", abs, err)
	}
	committed = true

	return abs, nil
}
