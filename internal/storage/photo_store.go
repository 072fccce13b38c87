// Package storage persists profile photos on disk. Uploads are
// validated (type and size) before any database row is written,
// renamed to the owner's UUID, and stamped with a watermark.
package storage

import (
	"bytes"
	"image"
	"image/color"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	svcErr "github.com/oggyb/matchmaker/internal/errors"
)

// PhotoStore writes validated, watermarked profile photos under a
// single directory.
type PhotoStore struct {
	dir       string
	maxSize   int64
	watermark string
}

// NewPhotoStore creates a store rooted at dir, creating it if missing.
func NewPhotoStore(dir string, maxSize int64, watermark string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, svcErr.UpstreamIO("could not create upload directory")
	}
	return &PhotoStore{dir: dir, maxSize: maxSize, watermark: watermark}, nil
}

// Check validates content and size without writing anything. Only JPEG
// and PNG payloads within the size cap pass.
func (s *PhotoStore) Check(data []byte) error {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
	default:
		return svcErr.Validation("You can upload only images")
	}
	if int64(len(data)) > s.maxSize {
		return svcErr.Validation("File is too big")
	}
	return nil
}

// Save validates data, watermarks it and writes it under
// <dir>/<uniqueName><ext-of-filename>. Returns the stored path; the
// caller keeps only this reference string.
func (s *PhotoStore) Save(data []byte, filename, uniqueName string) (string, error) {
	if err := s.Check(data); err != nil {
		return "", err
	}

	stamped, err := s.applyWatermark(data, filename)
	if err != nil {
		return "", err
	}

	path := s.filePath(filename, uniqueName)
	if err := os.WriteFile(path, stamped, 0o644); err != nil {
		return "", svcErr.UpstreamIO("error during file uploading")
	}
	return path, nil
}

// Remove deletes a stored photo. Used to clean up when a later signup
// step fails, so no orphaned file outlives its missing user row.
func (s *PhotoStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *PhotoStore) filePath(filename, uniqueName string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	return filepath.Join(s.dir, uniqueName+ext)
}

// applyWatermark draws the watermark text near the bottom-right corner
// and re-encodes in the upload's format.
func (s *PhotoStore) applyWatermark(data []byte, filename string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, svcErr.Validation("You can upload only images")
	}

	canvas := imaging.Clone(img)
	bounds := canvas.Bounds()

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, s.watermark).Ceil()

	const margin = 10
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot: fixed.P(
			bounds.Max.X-textWidth-margin,
			bounds.Max.Y-margin,
		),
	}
	drawer.DrawString(s.watermark)

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		format = imaging.PNG
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, canvas, format); err != nil {
		return nil, svcErr.UpstreamIO("error during file uploading")
	}
	return out.Bytes(), nil
}
