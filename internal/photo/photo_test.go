package photo_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferntree/sprout/internal/photo"
)

func TestEncodeRoundTrip(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	path := filepath.Join(t.TempDir(), "leaf.JPG")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	data, mime, err := photo.Encode(path)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q", mime)
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("payload is not plain base64: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("payload does not decode back to the file bytes")
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.tiff")
	if err := os.WriteFile(path, []byte("not a photo"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, _, err := photo.Encode(path); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestEncodeMissingFile(t *testing.T) {
	if _, _, err := photo.Encode(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
