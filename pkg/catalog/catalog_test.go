package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-harvester/pkg/models"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	books := []models.Book{
		{
			ID:       "239",
			Title:    "Пески Марса",
			Author:   "Артур Кларк",
			Genres:   []string{"Научная фантастика", "Научная фантастика"},
			Comments: []string{"Отличная книга!"},
			CoverURL: "https://tululu.org/shots/239.jpg",
			TextPath: filepath.Join("books", "Пески Марса.txt"),
			// CoverPath deliberately absent: download failed
		},
		{
			ID:       "13",
			Title:    "Алиби",
			Author:   "Александра Маринина",
			Genres:   []string{},
			Comments: []string{},
			CoverURL: "https://tululu.org/shots/13.jpg",
		},
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, books))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestWrite_NonASCIIPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, []models.Book{{ID: "1", Title: "Пески Марса"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Пески Марса", "Cyrillic must not be \\u-escaped")
	assert.NotContains(t, string(raw), `\u`)
}

func TestWrite_OptionalPathsOmittedNotNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, []models.Book{{ID: "1", Title: "T"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(raw)
	assert.NotContains(t, s, "text_path")
	assert.NotContains(t, s, "cover_path")
	assert.NotContains(t, s, "null")
}

func TestWrite_EmptyCatalogIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Write(path, nil))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, _ := os.ReadFile(path)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestWrite_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "catalog.json")
	require.NoError(t, Write(path, []models.Book{}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
