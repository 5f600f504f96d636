package download

import (
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when the requested file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrIsDirectory is returned when the requested path is a directory.
	ErrIsDirectory = errors.New("path is not a file")
)

const fallbackContentType = "application/octet-stream"

// Payload is an open file ready to be streamed to a client. The caller owns
// File and must close it.
type Payload struct {
	File        afero.File
	Name        string
	ContentType string
	Size        int64
	Modified    time.Time
}

// Stream opens the file at the guarded path and determines its content type
// from the filename extension, falling back to content sniffing and finally
// to application/octet-stream. The returned file is positioned at the start
// and is never buffered whole.
func Stream(fs afero.Fs, path string) (*Payload, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	contentType, err := detectContentType(f, info.Name())
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Payload{
		File:        f,
		Name:        info.Name(),
		ContentType: contentType,
		Size:        info.Size(),
		Modified:    info.ModTime(),
	}, nil
}

func detectContentType(f afero.File, name string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, nil
	}

	// Unknown extension: sniff the leading bytes, then rewind.
	mt, err := mimetype.DetectReader(f)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if mt != nil && mt.String() != "" {
		return mt.String(), nil
	}
	return fallbackContentType, nil
}
