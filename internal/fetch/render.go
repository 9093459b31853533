package fetch

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"oglasnik/importer/internal/config"
)

// renderClient talks to the rendering-capable retrieval service, which
// executes JavaScript before returning HTML. Slower and metered, so it is
// only the first choice, never the only one.
type renderClient struct {
	endpoint   string
	apiKey     string
	httpClient *resty.Client
}

type renderRequest struct {
	URL string `json:"url"`
}

type renderResponse struct {
	Success  bool   `json:"success"`
	HTML     string `json:"html"`
	FinalURL string `json:"finalUrl"`
	Error    string `json:"error,omitempty"`
}

// newRenderClient returns nil when the service is not configured; callers
// treat nil as a normal skip condition.
func newRenderClient(cfg config.FetcherConfig) *renderClient {
	if cfg.RenderEndpoint == "" || cfg.RenderAPIKey == "" {
		return nil
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.RenderTimeout)*time.Second).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.RenderAPIKey)

	return &renderClient{
		endpoint:   cfg.RenderEndpoint,
		apiKey:     cfg.RenderAPIKey,
		httpClient: client,
	}
}

func (r *renderClient) Fetch(ctx context.Context, url string) (*Page, error) {
	var result renderResponse

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(renderRequest{URL: url}).
		SetResult(&result).
		Post(r.endpoint)

	if err != nil {
		return nil, fmt.Errorf("render service request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("render service HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}
	if !result.Success || result.HTML == "" {
		return nil, fmt.Errorf("render service returned no content: %s", result.Error)
	}

	finalURL := result.FinalURL
	if finalURL == "" {
		finalURL = url
	}

	log.Debugf("Render service returned %d bytes for %s", len(result.HTML), url)
	return &Page{HTML: result.HTML, FinalURL: finalURL}, nil
}
