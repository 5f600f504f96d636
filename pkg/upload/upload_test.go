package upload

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/data/incoming", 0o755))
	return fs
}

func TestIngestStoresFiles(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	batch, err := Ingest(context.Background(), fs, "/srv/data/incoming", []File{
		{Name: "a.txt", Reader: strings.NewReader("alpha")},
		{Name: "b.txt", Reader: strings.NewReader("bravo")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Success)
	assert.Equal(t, 0, batch.Failed)
	require.Len(t, batch.Uploaded, 2)
	assert.Equal(t, Uploaded{Filename: "a.txt", Size: 5}, batch.Uploaded[0])

	content, err := afero.ReadFile(fs, "/srv/data/incoming/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(content))
}

func TestIngestOverwritesExisting(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	ctx := context.Background()

	first, err := Ingest(ctx, fs, "/srv/data/incoming", []File{
		{Name: "same.txt", Reader: strings.NewReader("first version, longer")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, first.Success)

	second, err := Ingest(ctx, fs, "/srv/data/incoming", []File{
		{Name: "same.txt", Reader: strings.NewReader("second")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, second.Success)

	// Last writer wins, fully replacing the first body.
	content, err := afero.ReadFile(fs, "/srv/data/incoming/same.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestIngestStripsDirectoryComponents(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	batch, err := Ingest(context.Background(), fs, "/srv/data/incoming", []File{
		{Name: "nested/dir/report.pdf", Reader: strings.NewReader("pdf")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, batch.Success)
	assert.Equal(t, "report.pdf", batch.Uploaded[0].Filename)

	exists, err := afero.Exists(fs, "/srv/data/incoming/report.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIngestRejectsTraversalFilename(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	batch, err := Ingest(context.Background(), fs, "/srv/data/incoming", []File{
		{Name: "../evil.txt", Reader: strings.NewReader("nope")},
	})
	require.NoError(t, err)

	require.Equal(t, 1, batch.Failed)
	assert.Contains(t, batch.Errors[0].Error, "invalid filename")

	// Nothing may land outside the target directory.
	for _, p := range []string{"/srv/data/evil.txt", "/srv/data/incoming/evil.txt"} {
		exists, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.False(t, exists, "unexpected file at %s", p)
	}
}

func TestIngestRejectsHiddenAndEmptyNames(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	batch, err := Ingest(context.Background(), fs, "/srv/data/incoming", []File{
		{Name: ".bashrc", Reader: strings.NewReader("x")},
		{Name: "", Reader: strings.NewReader("x")},
		{Name: "..", Reader: strings.NewReader("x")},
		{Name: "ok.txt", Reader: strings.NewReader("fine")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Success)
	assert.Equal(t, 3, batch.Failed)
	for _, fe := range batch.Errors {
		assert.Contains(t, fe.Error, "invalid filename")
	}
}

func TestIngestInvalidTarget(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	require.NoError(t, afero.WriteFile(fs, "/srv/data/plain.txt", []byte("x"), 0o644))

	_, err := Ingest(context.Background(), fs, "/srv/data/missing", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = Ingest(context.Background(), fs, "/srv/data/plain.txt", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestIngestPartialBatchContinues(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	batch, err := Ingest(context.Background(), fs, "/srv/data/incoming", []File{
		{Name: ".", Reader: strings.NewReader("bad")},
		{Name: "good.txt", Reader: strings.NewReader("good")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Success)
	assert.Equal(t, 1, batch.Failed)
}

func TestIngestHonorsCancellation(t *testing.T) {
	t.Parallel()

	fs := newUploadFs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := Ingest(ctx, fs, "/srv/data/incoming", []File{
		{Name: "big.bin", Reader: strings.NewReader("data")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Failed)
	assert.Contains(t, batch.Errors[0].Error, "context canceled")
}
