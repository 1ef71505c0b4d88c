// Package export turns a rendered chip into a downloadable PNG artifact.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// ErrExport marks every failure to produce or store the PNG byte stream.
var ErrExport = errors.New("export failed")

const (
	filePrefix = "FAI-Chip-"
	fileExt    = ".png"
)

// NamePattern matches artifact file names.
var NamePattern = regexp.MustCompile(`^FAI-Chip-\d+\.png$`)

// Artifact is an encoded chip image ready to be saved.
type Artifact struct {
	Name string
	Data []byte
}

// FileName returns FAI-Chip-<unix-ms>.png for t.
func FileName(t time.Time) string {
	return filePrefix + strconv.FormatInt(t.UnixMilli(), 10) + fileExt
}

// Encode writes img as PNG.
func Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrExport)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}

// New encodes img and names it after now.
func New(img image.Image, now time.Time) (Artifact, error) {
	data, err := Encode(img)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: FileName(now), Data: data}, nil
}

// Save writes the artifact into dir and returns the full path.
func Save(dir string, a Artifact) (string, error) {
	if a.Name == "" || len(a.Data) == 0 {
		return "", fmt.Errorf("%w: empty artifact", ErrExport)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", ErrExport, err)
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrExport, path, err)
	}
	return path, nil
}
