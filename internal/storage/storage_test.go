package storage

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

// upload builds a real *multipart.FileHeader the way gin would hand it to us.
func upload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestValidateAcceptsAllowedFormats(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 2048)
	require.NoError(t, err)

	for _, name := range []string{"a.jpg", "b.jpeg", "c.png", "d.gif", "E.PNG"} {
		assert.Empty(t, store.Validate(upload(t, name, []byte("img"))), name)
	}
}

func TestValidateRejectsFormatAndSize(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 1) // 1 KB ceiling
	require.NoError(t, err)

	reasons := store.Validate(upload(t, "evil.exe", bytes.Repeat([]byte("a"), 2048)))
	require.Len(t, reasons, 2)
	assert.Equal(t, "The image must be a file of type: jpeg, png, jpg, gif.", reasons[0])
	assert.Equal(t, "The image must not be greater than 1 kilobytes.", reasons[1])
}

func TestSaveNamesWithTimestampPrefix(t *testing.T) {
	root := t.TempDir()
	store, err := NewImageStore(root, 2048)
	require.NoError(t, err)

	rel, err := store.Save(upload(t, "photo.png", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "products/"), rel)
	assert.True(t, strings.HasSuffix(rel, "_photo.png"), rel)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestDeleteRemovesAndToleratesAbsence(t *testing.T) {
	root := t.TempDir()
	store, err := NewImageStore(root, 2048)
	require.NoError(t, err)

	rel, err := store.Save(upload(t, "photo.jpg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(rel))
	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(statErr))

	// second delete is a no-op, not an error
	assert.NoError(t, store.Delete(rel))
	assert.NoError(t, store.Delete("products/never_existed.png"))
}
