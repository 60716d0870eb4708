package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"book-harvester/pkg/models"
	"book-harvester/pkg/utils"
)

//go:embed template.html
var defaultTemplate string

// Renderer writes paginated HTML pages from a catalog.
type Renderer struct {
	tmpl *template.Template
	log  *logrus.Logger
}

// NewRenderer builds a Renderer. templatePath may be empty to use the
// embedded default template.
func NewRenderer(templatePath string, log *logrus.Logger) (*Renderer, error) {
	var tmpl *template.Template
	var err error
	if templatePath == "" {
		tmpl, err = template.New("page").Parse(defaultTemplate)
	} else {
		tmpl, err = template.ParseFiles(templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: template: %w", utils.ErrParsing, err)
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

// RenderSite paginates books and writes one HTML document per page into
// outDir as index1.html .. indexN.html. An empty catalog still produces a
// single empty page so the site root exists.
func (r *Renderer) RenderSite(books []models.Book, pageSize, columns int, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("%w: creating output dir '%s': %w", utils.ErrFilesystem, outDir, err)
	}

	pages := Paginate(books, pageSize, columns)
	if len(pages) == 0 {
		pages = []Page{{Number: 1, Total: 1, Rows: [][]models.Book{}}}
	}

	for _, page := range pages {
		path := filepath.Join(outDir, fmt.Sprintf("index%d.html", page.Number))
		if err := r.renderPage(page, path); err != nil {
			return err
		}
		r.log.WithFields(logrus.Fields{"page": page.Number, "path": path}).Debug("Page rendered")
	}
	r.log.Infof("Rendered %d page(s) to %s", len(pages), outDir)
	return nil
}

func (r *Renderer) renderPage(page Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating '%s': %w", utils.ErrFilesystem, path, err)
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, page); err != nil {
		return fmt.Errorf("%w: rendering page %d: %w", utils.ErrParsing, page.Number, err)
	}
	return nil
}
