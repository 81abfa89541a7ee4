package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"repurpose/internal/extract"
	"repurpose/internal/model"

	"github.com/rs/zerolog"
)

// BrowserUserAgent is sent with every article request; many sites reject the
// default Go client.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ArticleFetcher downloads an article and extracts its content.
type ArticleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.ArticleContent, error)
}

// FetcherOptions configures the HTTP side of an ArticleFetcher.
type FetcherOptions struct {
	Timeout      time.Duration
	MaxBytes     int64
	BlockPrivate bool
	Extract      extract.Func
}

type articleFetcher struct {
	client   *http.Client
	maxBytes int64
	extract  extract.Func
	logger   zerolog.Logger
}

// NewArticleFetcher builds an ArticleFetcher. A nil Extract uses the regex
// extractor.
func NewArticleFetcher(opts FetcherOptions, logger zerolog.Logger) ArticleFetcher {
	dialer := &net.Dialer{Timeout: opts.Timeout}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.BlockPrivate {
		transport.DialContext = safeDialContext(dialer)
		transport.Proxy = nil
	}
	fn := opts.Extract
	if fn == nil {
		fn = extract.Regex
	}
	return &articleFetcher{
		client:   &http.Client{Timeout: opts.Timeout, Transport: transport},
		maxBytes: opts.MaxBytes,
		extract:  fn,
		logger:   logger.With().Str("service", "ArticleFetcher").Logger(),
	}
}

// Fetch GETs rawURL and extracts it. Any transport failure or non-2xx status is
// returned as a *FetchError.
func (f *articleFetcher) Fetch(ctx context.Context, rawURL string) (*model.ArticleContent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", BrowserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", rawURL).Msg("Article request failed")
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error().Int("status", resp.StatusCode).Str("url", rawURL).Msg("Article host returned non-success status")
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		f.logger.Error().Err(err).Str("url", rawURL).Msg("Failed to read article body")
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	html := string(body)
	article, err := f.extract(html, parsed)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", rawURL).Msg("Extractor failed, falling back to regex extraction")
		article = extract.Extract(html)
	}
	f.logger.Debug().Str("url", rawURL).Str("title", article.Title).Int("word_count", article.WordCount).Msg("Article extracted")
	return &article, nil
}

// readLimited reads at most limit bytes from r and fails if there is more.
// A limit of 0 reads everything.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
