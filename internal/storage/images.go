// Package storage persists uploaded product images.
package storage

import (
	"context"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ImageStore writes an image under name and returns the reference that is
// stored as the product's image_url. Writing an existing name overwrites
// it.
type ImageStore interface {
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
}

// SecureFilename reduces a client supplied filename to ASCII letters,
// digits, '_', '.', '-' so it can't escape the upload directory. The
// result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	name = b.String()
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	b.Reset()
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
