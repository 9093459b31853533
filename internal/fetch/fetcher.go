package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"oglasnik/importer/internal/config"
)

// Page is the raw retrieval result handed to the extractor.
type Page struct {
	HTML     string
	FinalURL string
}

type PageFetcher interface {
	FetchPage(ctx context.Context, targetURL string) (*Page, error)
}

type fetcher struct {
	cfg        config.FetcherConfig
	rl         ratelimit.Limiter
	render     *renderClient
	profiles   *profileSupplier
	httpClient *resty.Client

	// Circuit breaker for the render service: after a failure the render
	// path is skipped for a cool-down window, direct retrieval is unaffected.
	breakerMutex    sync.RWMutex
	renderDownUntil time.Time
	breakerDelay    time.Duration
}

func NewFetcher(cfg config.FetcherConfig) PageFetcher {
	client := resty.New().
		SetTimeout(time.Duration(cfg.DirectTimeout) * time.Second).
		SetRetryCount(0).
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &fetcher{
		cfg:          cfg,
		rl:           ratelimit.New(rps),
		render:       newRenderClient(cfg),
		profiles:     newProfileSupplier(nil),
		httpClient:   client,
		breakerDelay: 5 * time.Minute,
	}
}

// FetchPage retrieves the raw HTML for a URL. The render service goes
// first because it handles JavaScript-built pages; direct retrieval with
// rotating header profiles is the cheap fallback for server-rendered pages
// and for when the render service is down or not configured.
func (f *fetcher) FetchPage(ctx context.Context, targetURL string) (*Page, error) {
	if f.render != nil && !f.isRenderCoolingDown() {
		renderCtx, cancel := context.WithTimeout(ctx, time.Duration(f.cfg.RenderTimeout)*time.Second)
		page, err := f.render.Fetch(renderCtx, targetURL)
		cancel()
		if err == nil {
			return page, nil
		}
		f.tripRenderBreaker()
		log.Warnf("Render service failed for %s, falling back to direct retrieval: %v", targetURL, err)
	}

	return f.fetchDirect(ctx, targetURL)
}

func (f *fetcher) fetchDirect(ctx context.Context, targetURL string) (*Page, error) {
	var lastErr *Error

	backoff := time.Duration(f.cfg.ProfileBackoff) * time.Second
	if backoff <= 0 {
		backoff = time.Second
	}

	for i, profile := range f.profiles.Ordered() {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, &Error{Kind: KindTimeout, URL: targetURL, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		f.rl.Take()

		reqCtx, cancel := context.WithTimeout(ctx, time.Duration(f.cfg.DirectTimeout)*time.Second)
		resp, err := f.httpClient.R().
			SetContext(reqCtx).
			SetHeaders(profile.Headers).
			Get(targetURL)
		cancel()

		if err != nil {
			if isTimeout(err) {
				lastErr = &Error{Kind: KindTimeout, URL: targetURL, Err: err}
				log.Debugf("Profile %s timed out for %s, rotating", profile.Name, targetURL)
				continue
			}
			// Transport-level failures (DNS, refused connection) will not
			// change with a different header profile.
			return nil, &Error{Kind: KindGeneric, URL: targetURL, Err: err}
		}

		switch {
		case resp.StatusCode() == http.StatusOK:
			return &Page{HTML: resp.String(), FinalURL: finalURL(resp, targetURL)}, nil
		case resp.StatusCode() == http.StatusForbidden:
			lastErr = &Error{Kind: KindBlocked, URL: targetURL, Err: fmt.Errorf("HTTP 403")}
			log.Debugf("Profile %s blocked (403) for %s, rotating", profile.Name, targetURL)
		case resp.StatusCode() == http.StatusTooManyRequests:
			lastErr = &Error{Kind: KindRateLimited, URL: targetURL, Err: fmt.Errorf("HTTP 429")}
			log.Debugf("Profile %s rate limited (429) for %s, rotating", profile.Name, targetURL)
		case resp.StatusCode() == http.StatusRequestTimeout:
			lastErr = &Error{Kind: KindTimeout, URL: targetURL, Err: fmt.Errorf("HTTP 408")}
		default:
			// Definitive HTTP error, no point trying other profiles.
			return nil, &Error{
				Kind: KindGeneric,
				URL:  targetURL,
				Err:  fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status()),
			}
		}
	}

	if lastErr == nil {
		lastErr = &Error{Kind: KindGeneric, URL: targetURL, Err: fmt.Errorf("no header profiles available")}
	}
	return nil, lastErr
}

func (f *fetcher) isRenderCoolingDown() bool {
	f.breakerMutex.RLock()
	defer f.breakerMutex.RUnlock()
	return time.Now().Before(f.renderDownUntil)
}

func (f *fetcher) tripRenderBreaker() {
	f.breakerMutex.Lock()
	defer f.breakerMutex.Unlock()
	f.renderDownUntil = time.Now().Add(f.breakerDelay)
	log.Warnf("Render service disabled until %s", f.renderDownUntil.Format("15:04:05"))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

func finalURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}
