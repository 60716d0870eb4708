package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"book-harvester/pkg/utils"
)

// Selectors for the catalog's detail-page markup. All book data lives
// under the single div#content region; navigation and sidebar boilerplate
// reuse some of the same class names, so every lookup is scoped there.
const (
	contentSelector = "div#content"
	headingSelector = "h1"
	genreSelector   = "span.d_book a"
	commentSelector = "div.texts"
	commentTextSel  = "span.black"
	coverSelector   = "div.bookimage img"

	headingDelimiter = "::" // Separates title from author inside the heading
)

// BookPage is the structured result of extracting one detail page.
// Asset downloads happen elsewhere; this holds only what the markup says.
type BookPage struct {
	Title    string
	Author   string
	Genres   []string
	Comments []string
	CoverURL string // Absolute, resolved against the page's own base URL
}

// BookDetail parses a confirmed-available detail page into a BookPage.
//
// A missing content region, heading, or cover element is fatal for this
// book and reported as a wrapped ErrExtraction; the caller skips the book
// and moves on. A comment block missing its text element is skipped
// silently, matching the source's own inconsistency.
func BookDetail(markup []byte, base *url.URL) (*BookPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML detail page: %w", utils.ErrParsing, err)
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, utils.ErrContentRegion
	}

	title, author, err := splitHeading(content)
	if err != nil {
		return nil, err
	}

	page := &BookPage{
		Title:    title,
		Author:   author,
		Genres:   make([]string, 0),
		Comments: make([]string, 0),
	}

	// Genres: document order, duplicates preserved.
	content.Find(genreSelector).Each(func(_ int, sel *goquery.Selection) {
		page.Genres = append(page.Genres, sel.Text())
	})

	// Comments: only the text element is kept; the sibling carrying the
	// commenter's name is discarded.
	content.Find(commentSelector).Each(func(_ int, block *goquery.Selection) {
		text := block.Find(commentTextSel).First()
		if text.Length() == 0 {
			return
		}
		page.Comments = append(page.Comments, strings.TrimSpace(text.Text()))
	})

	coverURL, err := resolveCover(content, base)
	if err != nil {
		return nil, err
	}
	page.CoverURL = coverURL

	return page, nil
}

// splitHeading pulls title and author out of the single heading element,
// which encodes both as "Title :: Author".
func splitHeading(content *goquery.Selection) (title, author string, err error) {
	heading := content.Find(headingSelector).First()
	if heading.Length() == 0 {
		return "", "", utils.ErrHeadingMissing
	}
	raw := heading.Text()
	idx := strings.Index(raw, headingDelimiter)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q", utils.ErrMalformedHeading, strings.TrimSpace(raw))
	}
	title = strings.TrimSpace(raw[:idx])
	author = strings.TrimSpace(raw[idx+len(headingDelimiter):])
	return title, author, nil
}

// resolveCover finds the cover image element and resolves its src against
// the page base, handling relative and protocol-relative forms.
func resolveCover(content *goquery.Selection, base *url.URL) (string, error) {
	img := content.Find(coverSelector).First()
	if img.Length() == 0 {
		return "", utils.ErrCoverMissing
	}
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("%w: cover img has no src", utils.ErrCoverMissing)
	}
	resolved, err := base.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", fmt.Errorf("%w: cover src %q: %w", utils.ErrParsing, src, err)
	}
	return resolved.String(), nil
}
