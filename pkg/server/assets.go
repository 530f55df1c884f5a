package server

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// Assets serves files from an ordered list of roots. The first root holding a
// file wins. Directories are never listed.
type Assets struct {
	roots  []fs.FS
	inject func([]byte) []byte
}

// NewAssets serves the given directories in order.
func NewAssets(dirs ...string) *Assets {
	roots := make([]fs.FS, 0, len(dirs))
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		roots = append(roots, os.DirFS(dir))
	}
	return &Assets{roots: roots}
}

// NewAssetsFS serves the given file systems in order.
func NewAssetsFS(roots ...fs.FS) *Assets {
	return &Assets{roots: roots}
}

// WithHTMLInjector rewrites every served .html file through fn.
func (a *Assets) WithHTMLInjector(fn func([]byte) []byte) *Assets {
	a.inject = fn
	return a
}

// Open returns the first matching regular file across roots.
func (a *Assets) Open(name string) (fs.File, fs.FileInfo, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, nil, fs.ErrNotExist
	}
	for _, root := range a.roots {
		file, err := root.Open(name)
		if err != nil {
			continue
		}
		info, err := file.Stat()
		if err != nil || info.IsDir() {
			file.Close()
			continue
		}
		return file, info, nil
	}
	return nil, nil, fs.ErrNotExist
}

func (a *Assets) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	file, info, err := a.Open(req.URL.Path)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer file.Close()

	if a.inject != nil && strings.EqualFold(path.Ext(info.Name()), ".html") {
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "read asset", http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, req, info.Name(), info.ModTime(), bytes.NewReader(a.inject(data)))
		return
	}

	if seeker, ok := file.(io.ReadSeeker); ok {
		http.ServeContent(w, req, info.Name(), info.ModTime(), seeker)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read asset", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, req, info.Name(), info.ModTime(), bytes.NewReader(data))
}

// Exists reports whether name resolves to a file in any root.
func (a *Assets) Exists(name string) bool {
	file, _, err := a.Open(name)
	if err != nil {
		return false
	}
	file.Close()
	return true
}
