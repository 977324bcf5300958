package web

import (
	"embed"
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

//go:embed dist
var embeddedDist embed.FS

// bundle returns the frontend build, dir on disk when set, the embedded
// build otherwise.
func bundle(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrap(err, "static dir")
		}

		if !info.IsDir() {
			return nil, errors.Errorf("static dir %s is not a directory", dir)
		}

		return os.DirFS(dir), nil
	}

	sub, err := fs.Sub(embeddedDist, "dist")
	if err != nil {
		return nil, errors.Wrap(err, "embedded bundle")
	}

	return sub, nil
}
