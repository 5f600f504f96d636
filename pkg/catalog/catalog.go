package catalog

import (
	"errors"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/dropkit/dropkit/pkg/pathguard"
)

var (
	// ErrNotFound is returned when the listed path does not exist.
	ErrNotFound = errors.New("directory not found")
	// ErrNotDirectory is returned when the path exists but is a file. The
	// caller may fall back to serving the file as a download.
	ErrNotDirectory = errors.New("not a directory")
)

// Entry describes one direct child of a listed directory.
type Entry struct {
	Name      string    `json:"name"`
	IsDir     bool      `json:"is_dir"`
	Size      int64     `json:"size"`
	SizeHuman string    `json:"size_human"`
	Modified  time.Time `json:"modified"`
	Path      string    `json:"path"`
}

// Crumb is one segment of the ancestor chain of a listed directory.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// List enumerates the direct children of dir, which must be a guarded path
// under root. Entries are ordered directories-first, then case-insensitive by
// name; the ordering is stable and part of the API contract. Children that
// cannot be stat-ed are skipped.
func List(fs afero.Fs, root, dir string) ([]Entry, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	children, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		size := child.Size()
		if child.IsDir() {
			size = 0
		}
		entries = append(entries, Entry{
			Name:      child.Name(),
			IsDir:     child.IsDir(),
			Size:      size,
			SizeHuman: humanize.Bytes(uint64(size)),
			Modified:  child.ModTime(),
			Path:      path.Join(pathguard.Rel(root, dir), child.Name()),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// Breadcrumbs returns the ancestor chain for a slash-form path relative to
// the served root. The root itself has no crumbs.
func Breadcrumbs(rel string) []Crumb {
	if rel == "" {
		return nil
	}
	parts := strings.Split(rel, "/")
	crumbs := make([]Crumb, 0, len(parts))
	for i, part := range parts {
		crumbs = append(crumbs, Crumb{
			Name: part,
			Path: strings.Join(parts[:i+1], "/"),
		})
	}
	return crumbs
}
