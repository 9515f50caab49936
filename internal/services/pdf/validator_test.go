package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// writePDFFixture generates a real PDF with the given number of pages
func writePDFFixture(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")

	doc := fpdf.New("P", "mm", "A4", "")
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.SetFont("Arial", "", 12)
		doc.Cell(40, 10, "fixture page")
	}
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

func TestValidate_ValidPDF(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())

	pages, err := validator.Validate(writePDFFixture(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestValidate_WrongExtension(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := validator.Validate(path)
	require.Error(t, err)
	assert.Equal(t, "Only PDF files are supported", err.Error())
}

func TestValidate_ExtensionCaseInsensitive(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())

	src := writePDFFixture(t, 1)
	dst := filepath.Join(filepath.Dir(src), "UPPER.PDF")
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))

	pages, err := validator.Validate(dst)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestValidate_MissingFile(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())

	_, err := validator.Validate(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File not found")
}

func TestValidate_Directory(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())
	dir := filepath.Join(t.TempDir(), "folder.pdf")
	require.NoError(t, os.Mkdir(dir, 0755))

	_, err := validator.Validate(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not a file")
}

func TestValidate_CorruptPDF(t *testing.T) {
	validator := NewValidator(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0644))

	_, err := validator.Validate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not a valid PDF file")
}
