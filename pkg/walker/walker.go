// Package walker drives the crawl: it steps through the configured range
// of category listing pages, discovers book links, and runs the
// fetch-classify-extract-download pipeline for each book with bounded
// concurrency. Failures isolate at the page and book level; only
// filesystem errors abort the run.
package walker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"book-harvester/pkg/assets"
	"book-harvester/pkg/config"
	"book-harvester/pkg/extract"
	"book-harvester/pkg/fetch"
	"book-harvester/pkg/models"
	"book-harvester/pkg/utils"
)

const (
	booksDir  = "books"  // Text bodies under destDir
	imagesDir = "images" // Cover images under destDir
)

// Walker owns the crawl for one run. The catalog it accumulates is handed
// off, immutable, to the writer when Run returns.
type Walker struct {
	cfg        *config.AppConfig
	fetcher    *fetch.Fetcher
	limiter    *fetch.RateLimiter
	robots     *fetch.RobotsGate // nil when robots checking is disabled
	downloader *assets.Downloader
	log        *logrus.Entry

	home *url.URL
	sem  *semaphore.Weighted

	catalog *models.Catalog

	// Counters for the final summary. skipReasons is written under mu by
	// concurrent book workers.
	mu          sync.Mutex
	skipReasons map[string]int
	pagesWalked int
	pagesFailed int
}

// New assembles a Walker from validated configuration and shared components.
func New(
	cfg *config.AppConfig,
	fetcher *fetch.Fetcher,
	limiter *fetch.RateLimiter,
	robots *fetch.RobotsGate,
	downloader *assets.Downloader,
	baseLogger *logrus.Logger,
) (*Walker, error) {
	home, err := cfg.HomeURL()
	if err != nil {
		return nil, err
	}
	return &Walker{
		cfg:         cfg,
		fetcher:     fetcher,
		limiter:     limiter,
		robots:      robots,
		downloader:  downloader,
		log:         baseLogger.WithField("category", cfg.CategoryID),
		home:        home,
		sem:         semaphore.NewWeighted(int64(cfg.NumWorkers)),
		catalog:     models.NewCatalog(),
		skipReasons: make(map[string]int),
	}, nil
}

// listingURL builds the URL for one page of the category index. The first
// page is the bare category URL; the source does not serve a /0 suffix.
func (w *Walker) listingURL(page int) *url.URL {
	ref := &url.URL{Path: fmt.Sprintf("l%d/", w.cfg.CategoryID)}
	if page > 0 {
		ref.Path += strconv.Itoa(page) + "/"
	}
	return w.home.ResolveReference(ref)
}

// Run walks the configured page range and returns the accumulated catalog.
// The returned catalog is valid (possibly partial or empty) even when err
// is non-nil: the caller always writes what survived.
//
// Errors are limited to filesystem failures and run-level cancellation;
// everything else is logged and skipped.
func (w *Walker) Run(ctx context.Context) (*models.Catalog, error) {
	start := time.Now()
	w.log.WithFields(logrus.Fields{
		"start_page": w.cfg.StartPage,
		"end_page":   w.cfg.EndPage,
		"workers":    w.cfg.NumWorkers,
	}).Info("Walk starting")

	if w.cfg.StartPage == w.cfg.EndPage {
		w.log.Info("Empty page range, nothing to walk")
		return w.catalog, nil
	}

	if w.robots != nil {
		if err := w.robots.Load(ctx, w.home); err != nil {
			w.log.Warnf("robots.txt parse failed, proceeding without restrictions: %v", err)
		} else if !w.robots.Allowed(w.listingURL(w.cfg.StartPage).Path) {
			return w.catalog, fmt.Errorf("category listing disallowed by robots.txt")
		}
	}

	// fatalErr carries the first filesystem error out of the book workers;
	// it cancels walkCtx so the remaining pages stop issuing fetches.
	var fatalOnce sync.Once
	var fatalErr error
	walkCtx, cancelWalk := context.WithCancel(ctx)
	defer cancelWalk()
	recordFatal := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancelWalk()
		})
	}

	for page := w.cfg.StartPage; page < w.cfg.EndPage; page++ {
		if walkCtx.Err() != nil {
			w.log.Warnf("Walk interrupted before page %d: %v", page, context.Cause(walkCtx))
			break
		}
		w.walkPage(walkCtx, page, recordFatal)
	}

	w.logSummary(time.Since(start))

	if fatalErr != nil {
		return w.catalog, fatalErr
	}
	if err := ctx.Err(); err != nil {
		return w.catalog, err
	}
	return w.catalog, nil
}

// walkPage fetches one listing page, extracts its book links, and runs the
// per-book pipeline for each with at most NumWorkers in flight. A failed
// listing never halts the walk.
func (w *Walker) walkPage(ctx context.Context, page int, recordFatal func(error)) {
	pageLog := w.log.WithField("page", page)
	pageURL := w.listingURL(page)

	w.limiter.Wait(pageURL.Hostname())
	res, err := w.fetcher.Get(ctx, pageURL.String())
	if err != nil {
		pageLog.WithField("category_err", utils.CategorizeError(err)).
			Warnf("Listing page failed, advancing: %v", err)
		w.countPage(false)
		return
	}

	links, err := extract.ListingLinks(res.Body, res.FinalURL)
	if err != nil {
		pageLog.Warnf("Listing page unparseable, advancing: %v", err)
		w.countPage(false)
		return
	}
	listing := models.ListingPage{Page: page, Links: links}
	pageLog.Infof("Found %d book links", len(listing.Links))

	var wg sync.WaitGroup
	for _, link := range listing.Links {
		if ctx.Err() != nil {
			break // Stop issuing new fetches; in-flight books finish below
		}
		if err := w.sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(link models.BookLink) {
			defer wg.Done()
			defer w.sem.Release(1)
			if err := w.processBook(ctx, link, pageLog); err != nil {
				if errors.Is(err, utils.ErrFilesystem) {
					recordFatal(err)
					return
				}
				// Non-fatal errors were already logged and counted.
			}
		}(link)
	}
	wg.Wait()
	w.countPage(true)
}

// processBook runs the full pipeline for one discovered link. Every
// failure path except filesystem errors resolves to a logged skip.
func (w *Walker) processBook(ctx context.Context, link models.BookLink, pageLog *logrus.Entry) error {
	bookLog := pageLog.WithFields(logrus.Fields{"book_id": link.ID, "url": link.URL.String()})

	w.limiter.Wait(link.URL.Hostname())
	res, err := w.fetcher.Get(ctx, link.URL.String())
	if err != nil {
		w.skip(bookLog, err, "Detail page fetch failed")
		return err
	}

	if fetch.Classify(res, w.home) == fetch.Unavailable {
		w.countSkip("Unavailable")
		bookLog.Debug("Book unavailable (redirected to home), skipping")
		return nil
	}

	page, err := extract.BookDetail(res.Body, res.FinalURL)
	if err != nil {
		w.skip(bookLog, err, "Extraction failed")
		return err
	}

	book := models.Book{
		ID:       link.ID,
		Title:    page.Title,
		Author:   page.Author,
		Genres:   page.Genres,
		Comments: page.Comments,
		CoverURL: page.CoverURL,
	}

	if !w.cfg.SkipText {
		folder := filepath.Join(w.cfg.DestDir, booksDir)
		textPath, err := w.downloader.FetchText(ctx, link.ID, page.Title, folder)
		switch {
		case err == nil:
			book.TextPath = textPath
		case errors.Is(err, utils.ErrFilesystem):
			return err
		case errors.Is(err, utils.ErrUnavailable):
			bookLog.Debug("Text body unavailable, keeping entry without it")
			w.countSkip("TextUnavailable")
		default:
			bookLog.WithField("category_err", utils.CategorizeError(err)).
				Warnf("Text download failed, keeping entry without it: %v", err)
		}
	}

	if !w.cfg.SkipImages {
		folder := filepath.Join(w.cfg.DestDir, imagesDir)
		coverPath, err := w.downloader.FetchImage(ctx, page.CoverURL, folder)
		switch {
		case err == nil:
			book.CoverPath = coverPath
		case errors.Is(err, utils.ErrFilesystem):
			return err
		default:
			bookLog.WithField("category_err", utils.CategorizeError(err)).
				Warnf("Cover download failed, keeping entry without it: %v", err)
		}
	}

	// Single publication point: the entry becomes visible only here, after
	// extraction and all attempted asset fetches completed.
	w.catalog.Append(book)
	bookLog.WithField("title", book.Title).Info("Book added to catalog")
	return nil
}

// skip logs a book-level failure with its category and counts it for the
// final summary.
func (w *Walker) skip(bookLog *logrus.Entry, err error, msg string) {
	category := utils.CategorizeError(err)
	w.countSkip(category)
	bookLog.WithField("category_err", category).Warnf("%s, skipping: %v", msg, err)
}

func (w *Walker) countSkip(category string) {
	w.mu.Lock()
	w.skipReasons[category]++
	w.mu.Unlock()
}

func (w *Walker) countPage(ok bool) {
	w.mu.Lock()
	w.pagesWalked++
	if !ok {
		w.pagesFailed++
	}
	w.mu.Unlock()
}

func (w *Walker) logSummary(duration time.Duration) {
	w.mu.Lock()
	reasons := make(logrus.Fields, len(w.skipReasons))
	for k, v := range w.skipReasons {
		reasons[k] = v
	}
	pagesWalked, pagesFailed := w.pagesWalked, w.pagesFailed
	w.mu.Unlock()

	w.log.Info("========================================")
	w.log.Info("WALK FINISHED")
	w.log.Infof("Duration:       %v", duration)
	w.log.Infof("Pages walked:   %d (%d failed)", pagesWalked, pagesFailed)
	w.log.Infof("Books kept:     %d", w.catalog.Len())
	if len(reasons) > 0 {
		w.log.WithFields(reasons).Info("Skips by reason")
	}
	w.log.Info("========================================")
}
