package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// chunkSize bounds memory use per upload regardless of file size.
const chunkSize = 1 << 20

// ErrInvalidTarget is returned when the upload target directory is missing or
// is not a directory. It fails the whole batch before any file is touched.
var ErrInvalidTarget = errors.New("invalid upload directory")

// File is one named payload in an upload batch.
type File struct {
	Name   string
	Reader io.Reader
}

// Uploaded records a successfully stored file.
type Uploaded struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// FileError records a per-file failure. Failures do not abort the batch.
type FileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// Batch summarizes one upload request.
type Batch struct {
	Uploaded []Uploaded  `json:"uploaded"`
	Errors   []FileError `json:"errors"`
	Success  int         `json:"success"`
	Failed   int         `json:"failed"`
}

// Ingest writes each payload to dir under a sanitized basename. dir must be a
// guarded path that exists and is a directory. Existing files at the target
// name are silently overwritten, last writer wins. Copying stops between
// chunks when ctx is cancelled; a partially written file is reported as that
// file's failure.
func Ingest(ctx context.Context, fs afero.Fs, dir string, files []File) (Batch, error) {
	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return Batch{}, ErrInvalidTarget
	}

	batch := Batch{Uploaded: []Uploaded{}, Errors: []FileError{}}
	for _, f := range files {
		stored, err := storeOne(ctx, fs, dir, f)
		if err != nil {
			batch.Errors = append(batch.Errors, FileError{Filename: f.Name, Error: err.Error()})
			batch.Failed++
			continue
		}
		batch.Uploaded = append(batch.Uploaded, stored)
		batch.Success++
	}
	return batch, nil
}

func storeOne(ctx context.Context, fs afero.Fs, dir string, f File) (Uploaded, error) {
	name, err := sanitizeFilename(f.Name)
	if err != nil {
		return Uploaded{}, err
	}

	dst, err := fs.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return Uploaded{}, err
	}
	defer dst.Close()

	written, err := copyChunked(ctx, dst, f.Reader)
	if err != nil {
		return Uploaded{}, err
	}
	return Uploaded{Filename: name, Size: written}, nil
}

// sanitizeFilename reduces a client-supplied filename to a bare basename.
// Directory components are never trusted; names carrying a ".." element are
// rejected outright, and empty or dot-prefixed names are rejected so uploads
// cannot create hidden files.
func sanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", errors.New("invalid filename")
		}
	}
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" || strings.HasPrefix(name, ".") {
		return "", errors.New("invalid filename")
	}
	if strings.Contains(name, "\x00") {
		return "", errors.New("invalid filename")
	}
	return name, nil
}

// copyChunked copies src to dst in fixed-size chunks, checking ctx between
// each chunk.
func copyChunked(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
