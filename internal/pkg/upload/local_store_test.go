package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("screenshot", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["screenshot"][0]
}

func TestSaveAndRemove(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 1024)

	public, err := store.Save("screenshots", fileHeader(t, "shot 1.png", []byte("png")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(public, "/uploads/screenshots/"))
	assert.True(t, strings.HasSuffix(public, "-shot_1.png"))

	full, err := store.Resolve("screenshots", public)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.Remove("screenshots", public))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Already gone.
	assert.NoError(t, store.Remove("screenshots", public))
}

func TestSaveRejectsLargeFile(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 2)

	_, err := store.Save("screenshots", fileHeader(t, "big.png", []byte("too big")))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestResolveRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, 0)
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("x"), 0644))

	for _, p := range []string{
		"/uploads/screenshots/../keep.txt",
		"/uploads/profile_pictures/a.png",
		"/uploads/screenshots/../../etc/passwd",
	} {
		_, err := store.Resolve("screenshots", p)
		assert.ErrorIs(t, err, ErrOutsideRoot, p)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "evil.sh", sanitize("../../evil.sh"))
	assert.Equal(t, "a_b.png", sanitize(`C:\tmp\a b.png`))
	assert.Equal(t, "file", sanitize(".."))
}

func TestSaveRemovesPartialFileWhenCopyExceedsCap(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, 4)

	fh := fileHeader(t, "big.png", []byte("much too big"))
	fh.Size = 1 // understated by the client

	_, err := store.Save("screenshots", fh)
	require.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(filepath.Join(root, "screenshots"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
