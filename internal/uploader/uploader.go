// Package uploader is the opaque image-upload collaborator: bytes in, a
// fetchable URL string out. On failure it returns a placeholder URL instead
// of erroring, which callers accept by design.
package uploader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

const PlaceholderURL = "/uploads/placeholder.png"

type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload stores the blob under a fresh name derived from the path hint and
// returns its URL, or the placeholder when the write fails.
func (u *LocalUploader) Upload(blob []byte, pathHint string) string {
	ext := filepath.Ext(pathHint)
	name := fmt.Sprintf("%s%s", ulid.Make().String(), ext)

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		log.Printf("Upload dir create failed, using placeholder: %v", err)
		return PlaceholderURL
	}
	if err := os.WriteFile(filepath.Join(u.dir, name), blob, 0o644); err != nil {
		log.Printf("Upload write failed, using placeholder: %v", err)
		return PlaceholderURL
	}

	return u.baseURL + "/" + name
}
