package download

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamTextFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/data/note.txt", []byte("hello world"), 0o644))

	payload, err := Stream(fs, "/srv/data/note.txt")
	require.NoError(t, err)
	defer payload.File.Close()

	assert.Equal(t, "note.txt", payload.Name)
	assert.Contains(t, payload.ContentType, "text/plain")
	assert.Equal(t, int64(11), payload.Size)

	body, err := io.ReadAll(payload.File)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))
}

func TestStreamUnknownExtensionSniffs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	// PNG magic bytes under an unknown extension.
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	require.NoError(t, afero.WriteFile(fs, "/srv/data/image.blob", png, 0o644))

	payload, err := Stream(fs, "/srv/data/image.blob")
	require.NoError(t, err)
	defer payload.File.Close()

	assert.Contains(t, payload.ContentType, "image/png")

	// The sniff must rewind the file before handing it to the caller.
	body, err := io.ReadAll(payload.File)
	require.NoError(t, err)
	assert.Equal(t, png, body)
}

func TestStreamEmptyUnknownFileFallsBack(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/data/empty.xyzzy", nil, 0o644))

	payload, err := Stream(fs, "/srv/data/empty.xyzzy")
	require.NoError(t, err)
	defer payload.File.Close()

	assert.NotEmpty(t, payload.ContentType)
}

func TestStreamMissingFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_, err := Stream(fs, "/srv/data/absent.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStreamDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/data/sub", 0o755))

	_, err := Stream(fs, "/srv/data/sub")
	assert.ErrorIs(t, err, ErrIsDirectory)
}
