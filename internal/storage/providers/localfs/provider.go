// Package localfs implements storage.Provider on the local filesystem.
// Objects under <dataRoot>/objects/<key> are expected to be served by a
// front proxy or CDN at <publicBaseURL>/<key>.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aumigobot/aumigobot/internal/storage"
)

// Provider stores objects under a local data root.
type Provider struct {
	dataRoot      string
	publicBaseURL string
}

// New creates a filesystem storage provider. dataRoot is the directory that
// holds stored objects; publicBaseURL is the URL prefix objects are served at.
func New(dataRoot, publicBaseURL string) (*Provider, error) {
	abs, err := filepath.Abs(dataRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve data root: %w", err)
	}
	return &Provider{
		dataRoot:      abs,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}, nil
}

// Put writes data under the key, creating parent directories as needed.
func (p *Provider) Put(_ context.Context, key string, reader io.Reader) error {
	dest, err := p.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Open reads an object by key.
func (p *Provider) Open(_ context.Context, key string) (io.ReadCloser, error) {
	dest, err := p.objectPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes an object by key. Missing objects are not an error.
func (p *Provider) Delete(_ context.Context, key string) error {
	dest, err := p.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// AccessURL returns the public URL for a storage key.
func (p *Provider) AccessURL(key string) string {
	if p.publicBaseURL == "" {
		return key
	}
	return p.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func (p *Provider) objectPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.TrimSpace(key) == "" || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidKey, key)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path traversal in %q", storage.ErrInvalidKey, key)
	}
	joined := filepath.Join(p.dataRoot, "objects", clean)
	if !strings.HasPrefix(joined, p.dataRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key escapes data root: %q", storage.ErrInvalidKey, key)
	}
	return joined, nil
}
