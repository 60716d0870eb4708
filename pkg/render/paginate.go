// Package render turns a harvested catalog into a paginated static site.
package render

import (
	"book-harvester/pkg/models"
)

// Page is one rendered site page: its number (1-based), the total page
// count, and its slice of entries pre-grouped row-major into rows of the
// configured column count. Templates iterate rows, then columns.
type Page struct {
	Number int
	Total  int
	Rows   [][]models.Book
}

// Paginate chunks books into ceil(len/pageSize) pages, each grouped into
// rows of columns entries. The grouping is row-major: entries fill a row
// left to right before the next row starts. The last row of the last page
// may be short.
func Paginate(books []models.Book, pageSize, columns int) []Page {
	if pageSize <= 0 {
		pageSize = len(books)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	if columns <= 0 {
		columns = 1
	}

	total := (len(books) + pageSize - 1) / pageSize
	pages := make([]Page, 0, total)
	for start := 0; start < len(books); start += pageSize {
		end := start + pageSize
		if end > len(books) {
			end = len(books)
		}
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Total:  total,
			Rows:   chunkRows(books[start:end], columns),
		})
	}
	return pages
}

func chunkRows(books []models.Book, columns int) [][]models.Book {
	rows := make([][]models.Book, 0, (len(books)+columns-1)/columns)
	for start := 0; start < len(books); start += columns {
		end := start + columns
		if end > len(books) {
			end = len(books)
		}
		rows = append(rows, books[start:end])
	}
	return rows
}
