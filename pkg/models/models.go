package models

import "net/url"

// Book is one surviving catalog entry: a detail page that passed the
// availability check and extracted cleanly.
//
// Genres preserve document order and are not deduplicated. Comments keep
// only the comment text; the commenter name is discarded on extraction.
// TextPath and CoverPath are set only when the corresponding download
// succeeded, and are omitted from the serialized catalog otherwise.
type Book struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Genres    []string `json:"genres"`
	Comments  []string `json:"comments"`
	CoverURL  string   `json:"cover_url"`
	TextPath  string   `json:"text_path,omitempty"`
	CoverPath string   `json:"cover_path,omitempty"`
}

// BookLink is one per-book reference discovered on a listing page.
// URL is already resolved against the listing page's base URL.
type BookLink struct {
	ID  string
	URL *url.URL
}

// ListingPage holds the ordered book links extracted from one page of the
// paginated category index. Transient; consumed immediately by the walker.
type ListingPage struct {
	Page  int
	Links []BookLink
}
