package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"book-harvester/pkg/utils"
)

// maxBodySize caps response reads to keep one oversized page from
// exhausting memory. Book text bodies on the source top out well below this.
const maxBodySize int64 = 20 << 20 // 20 MiB

// Result is the outcome of a completed GET: the full body plus the
// resolved final URL and the redirect chain length, which together feed
// the availability classifier.
type Result struct {
	Body       []byte
	StatusCode int
	FinalURL   *url.URL
	Redirects  int
}

// redirectTrace accumulates redirect hops for a single request. It travels
// in the request context because the http.Client (and its CheckRedirect
// hook) is shared across concurrent requests.
type redirectTrace struct {
	mu   sync.Mutex
	hops []string
}

func (t *redirectTrace) record(from, to *url.URL) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hops = append(t.hops, fmt.Sprintf("%s -> %s", from, to))
}

func (t *redirectTrace) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.hops)
}

type traceContextKey struct{}

func traceFromContext(ctx context.Context) *redirectTrace {
	trace, _ := ctx.Value(traceContextKey{}).(*redirectTrace)
	return trace
}

// Fetcher performs single-attempt GET requests using the shared client.
// There is deliberately no retry loop: a transient failure is treated as
// permanent for that unit of work within a run, and isolation happens at
// the walker boundary instead.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *logrus.Logger
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(client *http.Client, userAgent string, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// Get issues a GET for rawURL and reads the full body. On a non-2xx status
// it still returns the populated Result alongside a wrapped ErrHTTPStatus
// so callers can classify the response. Network-level failures return a
// wrapped ErrTransport.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	trace := &redirectTrace{}
	ctx = context.WithValue(ctx, traceContextKey{}, trace)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", utils.ErrRequestCreation, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	reqLog := f.log.WithField("url", rawURL)
	reqLog.Debug("Fetching...")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: '%s': %w", utils.ErrTransport, rawURL, err)
		}
		return nil, fmt.Errorf("%w: GET '%s': %w", utils.ErrTransport, rawURL, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body from '%s': %w", utils.ErrTransport, rawURL, err)
	}

	res := &Result{
		Body:       body,
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL,
		Redirects:  trace.count(),
	}

	resLog := reqLog.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"final_url":   res.FinalURL.String(),
		"redirects":   res.Redirects,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resLog.Debug("Non-success status")
		return res, fmt.Errorf("%w: status %d %s for '%s'", utils.ErrHTTPStatus, resp.StatusCode, resp.Status, rawURL)
	}

	resLog.Debug("Successfully fetched")
	return res, nil
}
