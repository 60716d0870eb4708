// Package catalog serializes the accumulated book records to the catalog
// file and reads them back for the site renderer.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"book-harvester/pkg/models"
	"book-harvester/pkg/utils"
)

// Write serializes books as a single JSON array to path, creating parent
// directories as needed. Output is human-readable UTF-8: indented, with
// non-ASCII text left unescaped. An empty book list is a valid outcome and
// writes an empty array.
func Write(path string, books []models.Book) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating catalog dir '%s': %w", utils.ErrFilesystem, dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating catalog file '%s': %w", utils.ErrFilesystem, path, err)
	}
	defer f.Close()

	if books == nil {
		books = []models.Book{}
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(books); err != nil {
		return fmt.Errorf("%w: encoding catalog to '%s': %w", utils.ErrFilesystem, path, err)
	}
	return nil
}

// Read loads a catalog file written by Write.
func Read(path string) ([]models.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog '%s': %w", utils.ErrFilesystem, path, err)
	}
	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: JSON catalog '%s': %w", utils.ErrParsing, path, err)
	}
	return books, nil
}
