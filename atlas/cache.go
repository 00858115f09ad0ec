package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-theft-auto/wgui"
)

// CacheName returns the base name of the cache files for a font file:
// "<font name>-<font size>", to which ".bin" and ".png" are appended.
func CacheName(ttfPath string, opts Options) string {
	base := strings.TrimSuffix(filepath.Base(ttfPath), filepath.Ext(ttfPath))
	return fmt.Sprintf("%s-%d", base, opts.FontSize)
}

// Load returns the atlas of the font at ttfPath. When cacheDir holds a .bin
// file of the right size for this font and options, its pixels are used and
// the distance field is not recomputed. Otherwise the atlas is built and
// both cache files are written. The cache is keyed by file name and font
// size only; remove it after changing the charset.
func Load(ttfPath, cacheDir string, opts Options) (*Atlas, error) {
	ttf, err := os.ReadFile(ttfPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	a, f, err := plan(ttf, opts)
	if err != nil {
		return nil, err
	}

	name := CacheName(ttfPath, opts)
	binPath := filepath.Join(cacheDir, name+".bin")
	data, err := os.ReadFile(binPath)
	switch {
	case err == nil && len(data) == a.size*a.size*4:
		a.image = &image.RGBA{Pix: data, Stride: a.size * 4, Rect: image.Rect(0, 0, a.size, a.size)}
		wgui.Logger().Info("atlas cache hit", "path", binPath)
		return a, nil
	case err == nil:
		wgui.Logger().Warn("atlas cache has wrong size, rebuilding",
			"path", binPath, "bytes", len(data), "want", a.size*a.size*4)
	case errors.Is(err, fs.ErrNotExist):
		wgui.Logger().Info("atlas cache miss", "path", binPath)
	default:
		return nil, fmt.Errorf("read atlas cache: %w", err)
	}

	start := time.Now()
	if err := a.render(f); err != nil {
		return nil, err
	}
	wgui.Logger().Info("atlas built",
		"font", a.face.name, "glyphs", len(a.order), "size", a.size, "elapsed", time.Since(start))
	if _, _, err := WriteCache(a, cacheDir, name); err != nil {
		return nil, err
	}
	return a, nil
}

// WriteCache writes the raw RGBA8 pixels of a to dir/name.bin and a preview
// to dir/name.png.
func WriteCache(a *Atlas, dir, name string) (binPath, pngPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create cache dir: %w", err)
	}
	binPath = filepath.Join(dir, name+".bin")
	if err := WriteBin(a, binPath); err != nil {
		return "", "", err
	}
	pngPath = filepath.Join(dir, name+".png")
	if err := WritePreview(a, pngPath); err != nil {
		return "", "", err
	}
	return binPath, pngPath, nil
}

// WriteBin writes the raw RGBA8 pixels of a to path.
func WriteBin(a *Atlas, path string) error {
	if err := os.WriteFile(path, a.image.Pix, 0o644); err != nil {
		return fmt.Errorf("write atlas cache: %w", err)
	}
	return nil
}

// WritePreview encodes the atlas as a PNG at path.
func WritePreview(a *Atlas, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create atlas preview: %w", err)
	}
	if err := png.Encode(out, a.image); err != nil {
		out.Close()
		return fmt.Errorf("encode atlas preview: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close atlas preview: %w", err)
	}
	return nil
}
