// Package scan fetches the fixed set of website pages consumed by the
// capture signal extractor. It is a collaborator of the engine, not part of
// it: fetch failures come back as per-page markers, never as errors, and the
// engine's fold makes the result independent of fetch completion order.
package scan

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// ScanPaths are the fixed page paths attempted for every audit, in attempt
// order: homepage, contact, services.
var ScanPaths = []string{"/", "/contact", "/services"}

const maxBodyBytes = 512 * 1024

// Scanner fetches a site's audit pages concurrently with a per-audit rate
// limit.
type Scanner struct {
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scanner) { s.client = c }
}

// WithRateLimit overrides the default fetch rate limit.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *Scanner) { s.limiter = rate.NewLimiter(r, burst) }
}

// WithTimeout overrides the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.client.Timeout = d }
}

// New creates a Scanner with sensible defaults: 10s timeout, redirects
// followed, three fetches per second.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(3, 3),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PageResult is one fetched page, or a failure marker for it.
type PageResult struct {
	Path       string
	URL        string
	OK         bool
	StatusCode int
	Body       string
	Err        string
}

// Scan fetches the fixed paths under websiteURL concurrently. The returned
// slice is always len(ScanPaths) and ordered by attempt order regardless of
// completion order; individual failures become markers, never errors. Only
// a malformed website URL is an error.
func (s *Scanner) Scan(ctx context.Context, websiteURL string) ([]PageResult, error) {
	base, err := baseURL(websiteURL)
	if err != nil {
		return nil, eris.Wrap(err, "scan: parse website url")
	}

	results := make([]PageResult, len(ScanPaths))

	g, gCtx := errgroup.WithContext(ctx)
	for i, path := range ScanPaths {
		g.Go(func() error {
			results[i] = s.fetch(gCtx, base, path)
			return nil
		})
	}
	// Workers only record markers; the group never carries an error.
	_ = g.Wait()

	return results, nil
}

func (s *Scanner) fetch(ctx context.Context, base, path string) PageResult {
	pageURL := base + path
	result := PageResult{Path: path, URL: pageURL}

	if err := s.limiter.Wait(ctx); err != nil {
		result.Err = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PrecallAuditBot/1.0)")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().Warn("scan: fetch failed",
			zap.String("url", pageURL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		result.Err = err.Error()
		return result
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode

	if blocked, blockType := detectBlock(resp, body); blocked {
		zap.L().Warn("scan: page blocked",
			zap.String("url", pageURL),
			zap.String("block_type", string(blockType)),
		)
		result.Err = "blocked: " + string(blockType)
		return result
	}

	if resp.StatusCode != http.StatusOK {
		result.Err = "status " + resp.Status
		return result
	}

	decoded, err := decodeCharset(body, resp.Header.Get("Content-Type"))
	if err != nil {
		zap.L().Debug("scan: charset decode failed, using raw body",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		decoded = string(body)
	}

	result.OK = true
	result.Body = decoded
	zap.L().Debug("scan: page fetched",
		zap.String("url", pageURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result
}

// decodeCharset converts a response body to UTF-8 according to the
// Content-Type charset parameter. Bodies without a charset (or already
// UTF-8) pass through unchanged.
func decodeCharset(body []byte, contentType string) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", eris.Wrapf(err, "scan: unsupported charset %q", charset)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrap(err, "scan: decode body")
	}
	return string(decoded), nil
}

// baseURL normalizes a website URL to "scheme://host" with https assumed
// when the scheme is missing.
func baseURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", eris.New("scan: empty url")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", eris.Wrap(err, "scan: parse url")
	}
	if u.Host == "" {
		return "", eris.Errorf("scan: url has no host: %s", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
