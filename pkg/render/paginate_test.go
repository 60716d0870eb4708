package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-harvester/pkg/models"
)

func makeBooks(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{ID: fmt.Sprintf("%d", i+1), Title: fmt.Sprintf("Книга %d", i+1)}
	}
	return books
}

func TestPaginate_GroupingContract(t *testing.T) {
	// 45 entries, page size 20, 2 columns: 3 pages with 10, 10, 3 rows.
	pages := Paginate(makeBooks(45), 20, 2)

	require.Len(t, pages, 3)
	assert.Len(t, pages[0].Rows, 10)
	assert.Len(t, pages[1].Rows, 10)
	assert.Len(t, pages[2].Rows, 3)

	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, 3, p.Total)
	}

	// Row-major order: first row of first page holds entries 1 and 2.
	assert.Equal(t, "1", pages[0].Rows[0][0].ID)
	assert.Equal(t, "2", pages[0].Rows[0][1].ID)
	assert.Equal(t, "3", pages[0].Rows[1][0].ID)

	// Last page: 5 entries in rows of 2 → 2, 2, 1.
	last := pages[2]
	assert.Len(t, last.Rows[0], 2)
	assert.Len(t, last.Rows[1], 2)
	assert.Len(t, last.Rows[2], 1)
	assert.Equal(t, "45", last.Rows[2][0].ID)
}

func TestPaginate_ExactMultiple(t *testing.T) {
	pages := Paginate(makeBooks(40), 20, 2)
	require.Len(t, pages, 2)
	assert.Len(t, pages[1].Rows, 10)
}

func TestPaginate_SinglePartialPage(t *testing.T) {
	pages := Paginate(makeBooks(3), 20, 2)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Total)
	assert.Len(t, pages[0].Rows, 2)
}

func TestPaginate_Empty(t *testing.T) {
	assert.Empty(t, Paginate(nil, 20, 2))
}

func TestPaginate_DegenerateParameters(t *testing.T) {
	// Non-positive page size or columns fall back to a single page, one
	// entry per row.
	pages := Paginate(makeBooks(4), 0, 0)
	require.Len(t, pages, 1)
	assert.Len(t, pages[0].Rows, 4)
}

func TestRenderSite_WritesOneDocumentPerPage(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r, err := NewRenderer("", log)
	require.NoError(t, err)

	outDir := t.TempDir()
	books := makeBooks(45)
	books[0].Title = "Пески Марса"
	books[0].CoverPath = "images/239.jpg"
	require.NoError(t, r.RenderSite(books, 20, 2, outDir))

	for i := 1; i <= 3; i++ {
		path := filepath.Join(outDir, fmt.Sprintf("index%d.html", i))
		content, err := os.ReadFile(path)
		require.NoError(t, err, "page %d missing", i)
		assert.Contains(t, string(content), fmt.Sprintf("%d из 3", i))
	}

	first, _ := os.ReadFile(filepath.Join(outDir, "index1.html"))
	assert.Contains(t, string(first), "Пески Марса")
	assert.Contains(t, string(first), "images/239.jpg")
}

func TestRenderSite_EmptyCatalogStillProducesIndex(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r, err := NewRenderer("", log)
	require.NoError(t, err)

	outDir := t.TempDir()
	require.NoError(t, r.RenderSite(nil, 20, 2, outDir))

	_, statErr := os.Stat(filepath.Join(outDir, "index1.html"))
	assert.NoError(t, statErr)
}
