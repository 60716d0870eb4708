package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"book-harvester/pkg/models"
	"book-harvester/pkg/utils"
)

// listingLinkSelector matches the per-book anchors on a category listing
// page: each book's cover block under the content region wraps a link to
// its detail page.
const listingLinkSelector = "div#content div.bookimage a[href]"

// bookPathRe captures the numeric book id from a detail-page path (/b239/).
var bookPathRe = regexp.MustCompile(`^/b(\d+)/?$`)

// ListingLinks parses one listing page and returns the ordered per-book
// links, each resolved against the page's base URL. Anchors that do not
// point at a detail page are ignored rather than treated as errors.
func ListingLinks(markup []byte, base *url.URL) ([]models.BookLink, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML listing page: %w", utils.ErrParsing, err)
	}

	links := make([]models.BookLink, 0)
	doc.Find(listingLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		resolved, parseErr := base.Parse(href)
		if parseErr != nil {
			return
		}
		m := bookPathRe.FindStringSubmatch(resolved.Path)
		if m == nil {
			return
		}
		links = append(links, models.BookLink{ID: m[1], URL: resolved})
	})
	return links, nil
}
