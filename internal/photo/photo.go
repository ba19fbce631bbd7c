// Package photo loads plant photos from disk for analysis.
package photo

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Encode reads the image at path and returns its un-prefixed base64
// payload plus MIME type. Only common photo formats are accepted, judged
// by extension; the bytes themselves are passed through opaquely.
func Encode(path string) (data, mime string, err error) {
	mime, err = mimeType(path)
	if err != nil {
		return "", "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading photo: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), mime, nil
}

func mimeType(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	case ".webp":
		return "image/webp", nil
	default:
		return "", fmt.Errorf("unsupported photo format %q (want .jpg, .jpeg, .png or .webp)", ext)
	}
}
