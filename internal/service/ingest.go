package service

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/xiaoyibao/medassist/internal/domain"
)

// Ingestor persists uploaded artifacts to the working directory. It never
// overwrites: on a name collision a numeric suffix is appended to the base
// name before the extension, incrementing until a free path is found.
type Ingestor struct {
	dir string
}

func NewIngestor(dir string) *Ingestor {
	return &Ingestor{dir: dir}
}

// Save writes data under the artifact's original name, resolving collisions
// deterministically (name.ext, name_1.ext, name_2.ext, ...).
func (i *Ingestor) Save(data []byte, originalName string) (*domain.UploadedArtifact, error) {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("save upload: invalid file name %q", originalName)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for n := 1; ; n++ {
		path := filepath.Join(i.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if _, werr := f.Write(data); werr != nil {
				f.Close()
				os.Remove(path)
				return nil, fmt.Errorf("write upload: %w", werr)
			}
			if cerr := f.Close(); cerr != nil {
				return nil, fmt.Errorf("close upload: %w", cerr)
			}
			return &domain.UploadedArtifact{
				OriginalName: base,
				Path:         path,
				MIMEType:     MIMEForName(base),
			}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("save upload: %w", err)
		}
		name = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// MIMEForName resolves a MIME type from a file name's extension.
func MIMEForName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// AllowedExtension reports whether a file name's extension is in the
// configured allow-list. Extensions are compared without the dot,
// case-insensitively.
func AllowedExtension(name string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(strings.TrimPrefix(a, ".")) {
			return true
		}
	}
	return false
}
