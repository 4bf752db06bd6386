package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	called := m.Called(ctx, path)
	return called.String(0), called.Error(1)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReader_ReadTXT(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "42.txt", "ІМЕНЕМ УКРАЇНИ")

	doc, err := NewReader(Config{}, &mockExtractor{}, nil).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "TXT", doc.Format)
	assert.Equal(t, "ІМЕНЕМ УКРАЇНИ", doc.Text)
}

func TestReader_ReadPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "7.pdf", "%PDF-1.4")

	pdf := &mockExtractor{}
	pdf.On("ExtractText", mock.Anything, path).Return("ПОСТАНОВА\fсторінка 2", nil)

	doc, err := NewReader(Config{}, pdf, nil).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "PDF", doc.Format)
	assert.Equal(t, "ПОСТАНОВА\fсторінка 2", doc.Text)
	pdf.AssertExpectations(t)
}

func TestReader_Errors(t *testing.T) {
	dir := t.TempDir()
	r := NewReader(Config{PdfToText: "pdftotext"}, &mockExtractor{}, nil)

	_, err := r.Read(context.Background(), filepath.Join(dir, "1.rtf"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = r.Read(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.Read(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, common.ErrNotFound)

	path := writeFile(t, dir, "2.pdf", "broken")
	pdf := &mockExtractor{}
	pdf.On("ExtractText", mock.Anything, path).Return("", errors.New("pdftotext failed: Syntax Error"))
	_, err = NewReader(Config{}, pdf, nil).Read(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Syntax Error")
}

func TestList_SortsByNumericID(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.txt", "2.pdf", "1.txt", "notes.txt", "image.png"} {
		writeFile(t, dir, name, "x")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "3.txt"), 0o755))

	paths, err := List(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"1.txt", "2.pdf", "10.txt", "notes.txt"}, names)
}
