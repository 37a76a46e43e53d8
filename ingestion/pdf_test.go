package ingestion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/ingestion"
)

func TestLoadPDFDirectorySkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.pdf", "this is not a pdf")

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadPDFDirectory(dir)
	require.NoError(t, err, "an unreadable file must not abort the batch")
	assert.Empty(t, records)
}

func TestLoadPDFDirectoryEmptyDir(t *testing.T) {
	svc := ingestion.NewService("", nil)
	records, err := svc.LoadPDFDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadPDFMissingFile(t *testing.T) {
	svc := ingestion.NewService("", nil)
	_, err := svc.LoadPDF("/does/not/exist.pdf", nil)
	assert.Error(t, err)
}
