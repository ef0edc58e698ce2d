// Package upload stores chat attachments on disk and hands back the
// file name to expose as an opaque media URL. The chat core never looks
// inside the files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	// ErrEmptyFilename is returned for a part with no usable file name.
	ErrEmptyFilename = errors.New("no selected file")
	// ErrDisallowedType is returned when the extension or the sniffed
	// content is not an allowed image type.
	ErrDisallowedType = errors.New("disallowed file type")
)

var allowedExts = []string{".png", ".jpg", ".jpeg", ".gif"}

// Store writes uploaded attachments into a single directory, giving
// each one a UUID-prefixed name so uploads never collide.
type Store struct {
	dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Save validates and persists one multipart file, returning the stored
// file name. The extension whitelist is checked first, then the actual
// content is sniffed so a renamed non-image is still rejected.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	base := filepath.Base(fh.Filename)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", ErrEmptyFilename
	}
	if !lo.Contains(allowedExts, strings.ToLower(filepath.Ext(base))) {
		return "", ErrDisallowedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrDisallowedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), sanitize(base))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	s.log.Info("stored attachment", "name", name, "mime", mtype.String(), "size", fh.Size)
	return name, nil
}

// sanitize keeps only characters that are safe in a file name served
// back over HTTP.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
