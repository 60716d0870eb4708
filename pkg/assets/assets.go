// Package assets downloads the artifacts a book record references: its
// plain-text body and its cover image. Destination names are stable
// functions of the inputs, so re-running a harvest overwrites files in
// place instead of accumulating duplicates.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"book-harvester/pkg/fetch"
	"book-harvester/pkg/utils"
)

const textEndpoint = "/txt.php" // Text bodies are served by id query, not by path

// Downloader fetches book assets. It shares the walker's Fetcher so every
// request goes through the same client, pacing, and logging.
type Downloader struct {
	fetcher *fetch.Fetcher
	home    *url.URL // Catalog root; also the classifier's home URL
	log     *logrus.Logger
}

// NewDownloader creates a Downloader rooted at the catalog home URL.
func NewDownloader(fetcher *fetch.Fetcher, home *url.URL, log *logrus.Logger) *Downloader {
	return &Downloader{fetcher: fetcher, home: home, log: log}
}

// FetchText downloads the text body for a book id into
// folder/<sanitized filename>.txt and returns the written path.
//
// The text endpoint uses the same silent-redirect-to-home convention as
// detail pages, so the response goes through the availability classifier;
// a missing body returns a wrapped ErrUnavailable, not a write.
func (d *Downloader) FetchText(ctx context.Context, id, filename, folder string) (string, error) {
	textURL := d.home.ResolveReference(&url.URL{
		Path:     textEndpoint,
		RawQuery: url.Values{"id": []string{id}}.Encode(),
	})

	res, err := d.fetcher.Get(ctx, textURL.String())
	if err != nil {
		return "", err
	}
	if fetch.Classify(res, d.home) == fetch.Unavailable {
		return "", fmt.Errorf("%w: text body for book %s", utils.ErrUnavailable, id)
	}

	dest := filepath.Join(folder, utils.SanitizeFilename(filename)+".txt")
	if err := writeAsset(dest, folder, res.Body); err != nil {
		return "", err
	}
	d.log.WithFields(logrus.Fields{"book_id": id, "path": dest, "bytes": len(res.Body)}).Debug("Text body saved")
	return dest, nil
}

// FetchImage downloads the cover at rawURL into folder, deriving the
// filename from the URL's last path segment (percent-decoded). No
// classifier step: the source has no soft-404 pattern for images, so a
// transport or status failure is the only miss signal.
func (d *Downloader) FetchImage(ctx context.Context, rawURL, folder string) (string, error) {
	res, err := d.fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	name, err := imageFilename(rawURL)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(folder, name)
	if err := writeAsset(dest, folder, res.Body); err != nil {
		return "", err
	}
	d.log.WithFields(logrus.Fields{"url": rawURL, "path": dest, "bytes": len(res.Body)}).Debug("Cover image saved")
	return dest, nil
}

// imageFilename derives the on-disk name from the URL path's last
// component, percent-decoded.
func imageFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: cover URL %q: %w", utils.ErrParsing, rawURL, err)
	}
	decoded, err := url.PathUnescape(u.Path)
	if err != nil {
		decoded = u.Path
	}
	name := path.Base(decoded)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("%w: cover URL %q has no file component", utils.ErrParsing, rawURL)
	}
	return utils.SanitizeFilename(name), nil
}

// writeAsset creates the folder if needed and writes the complete body to
// its final path in one call. MkdirAll tolerates concurrent creation, and
// writing only the fully received body means an aborted run never leaves a
// truncated file behind under a final name.
func writeAsset(dest, folder string, body []byte) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("%w: creating folder '%s': %w", utils.ErrFilesystem, folder, err)
	}
	if err := os.WriteFile(dest, body, 0644); err != nil {
		return fmt.Errorf("%w: writing '%s': %w", utils.ErrFilesystem, dest, err)
	}
	return nil
}
