package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePreservesOriginalName(t *testing.T) {
	ing := NewIngestor(t.TempDir())

	a, err := ing.Save([]byte("data"), "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", a.OriginalName)
	assert.Equal(t, "report.pdf", filepath.Base(a.Path))
	assert.Equal(t, "application/pdf", a.MIMEType)

	got, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

func TestSaveResolvesCollisions(t *testing.T) {
	ing := NewIngestor(t.TempDir())

	first, err := ing.Save([]byte("one"), "scan.jpg")
	require.NoError(t, err)
	second, err := ing.Save([]byte("two"), "scan.jpg")
	require.NoError(t, err)
	third, err := ing.Save([]byte("three"), "scan.jpg")
	require.NoError(t, err)

	assert.Equal(t, "scan.jpg", filepath.Base(first.Path))
	assert.Equal(t, "scan_1.jpg", filepath.Base(second.Path))
	assert.Equal(t, "scan_2.jpg", filepath.Base(third.Path))

	got, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	ing := NewIngestor(dir)

	a, err := ing.Save([]byte("x"), "../../etc/passwd")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd"), a.Path)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	ing := NewIngestor(t.TempDir())

	_, err := ing.Save([]byte("x"), "   ")

	assert.Error(t, err)
}

func TestMIMEForName(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEForName("report.pdf"))
	assert.Equal(t, "application/octet-stream", MIMEForName("blob.unknownext"))
}

func TestAllowedExtension(t *testing.T) {
	allowed := []string{"jpg", "PNG", ".pdf"}

	assert.True(t, AllowedExtension("a.jpg", allowed))
	assert.True(t, AllowedExtension("a.JPG", allowed))
	assert.True(t, AllowedExtension("a.png", allowed))
	assert.True(t, AllowedExtension("a.pdf", allowed))
	assert.False(t, AllowedExtension("a.gif", allowed))
	assert.False(t, AllowedExtension("noext", allowed))
}
