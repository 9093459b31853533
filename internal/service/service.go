package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"oglasnik/importer/internal/ai"
	"oglasnik/importer/internal/domain"
	"oglasnik/importer/internal/extract"
	"oglasnik/importer/internal/fetch"
	"oglasnik/importer/internal/normalize"
	"oglasnik/importer/internal/queue"
	"oglasnik/importer/internal/repository"
	"oglasnik/importer/internal/resolve"
	"oglasnik/importer/internal/state"
	"oglasnik/importer/internal/vehicle"
)

var (
	ErrInvalidURL          = errors.New("invalid listing URL")
	ErrInsufficientContent = errors.New("page content insufficient for import")
	ErrNoTitle             = errors.New("no usable title in page")
)

type Service struct {
	fetcher      fetch.PageFetcher
	provider     ai.Provider // nil when AI is disabled
	resolver     *resolve.Resolver
	taxonomy     *domain.Taxonomy
	queue        queue.Queue
	stateManager state.StateManager
	repository   repository.ListingRepository
	groupName    string
	minIdleTime  time.Duration
}

func NewService(
	fetcher fetch.PageFetcher,
	provider ai.Provider,
	resolver *resolve.Resolver,
	taxonomy *domain.Taxonomy,
	queue queue.Queue,
	stateManager state.StateManager,
	repository repository.ListingRepository,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		fetcher:      fetcher,
		provider:     provider,
		resolver:     resolver,
		taxonomy:     taxonomy,
		queue:        queue,
		stateManager: stateManager,
		repository:   repository,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

// ImportListing runs the full pipeline for one URL: fetch, extract, AI
// draft, normalize, resolve against the taxonomy, vehicle enrichment.
// When the AI draft fails but the page yields a title, a degraded record
// flagged as fallback is returned instead of an error.
func (s *Service) ImportListing(ctx context.Context, rawURL string) (*domain.Listing, error) {
	sourceURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := s.fetcher.FetchPage(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if insufficientContent(page.HTML) {
		return nil, ErrInsufficientContent
	}

	bundle, err := extract.Bundle(page.HTML, page.FinalURL, s.taxonomy.CategoryNames())
	if err != nil {
		return nil, ErrInsufficientContent
	}

	listing := &domain.Listing{
		ID:         uuid.NewString(),
		SourceURL:  sourceURL,
		Images:     bundle.Images,
		Attributes: map[string]string{},
		ImportedAt: time.Now().UTC(),
	}

	draft := s.proposeDraft(ctx, sourceURL, bundle)
	if draft != nil {
		listing.Title = draft.Title
		listing.Description = draft.Description
		listing.Category = draft.Category
		listing.SubCategory = draft.SubCategory
		listing.Location = draft.Location
		listing.Condition = normalize.ClassifyCondition(draft.Condition)
	} else {
		listing.Fallback = true
	}

	if listing.Title == "" {
		listing.Title = metaTitle(bundle)
	}
	if listing.Title == "" {
		return nil, ErrNoTitle
	}
	if listing.Description == "" {
		listing.Description = bundle.Description
	}

	normalize.Apply(listing, bundle)

	// The AI draft is the lowest-priority price source; anything found in
	// the page itself has already won by this point.
	if draft != nil && listing.Price == 0 && listing.PriceType != domain.PriceTypeNegotiable && draft.Price > 0 {
		listing.Price = draft.Price
	}
	if draft != nil && listing.Currency == "" && draft.Currency != "" {
		listing.Currency = normalize.CurrencyCode(draft.Currency)
	}
	if listing.PriceType == "" {
		if listing.Price > 0 {
			listing.PriceType = domain.PriceTypeFixed
		} else {
			listing.PriceType = domain.PriceTypeOnRequest
		}
	}

	s.resolver.Resolve(ctx, listing, bundle)

	if listing.Category == resolve.CategoryVehicles {
		vehicle.Enrich(listing)
	}

	return listing, nil
}

func (s *Service) proposeDraft(ctx context.Context, sourceURL string, bundle *domain.ExtractionBundle) *ai.Draft {
	if s.provider == nil {
		return nil
	}

	draft, err := s.provider.ProposeListing(ctx, ai.Signals{
		Meta:        bundle.Meta,
		JSONLD:      bundle.JSONLD,
		Breadcrumbs: bundle.Breadcrumbs,
		Description: bundle.Description,
		PageText:    bundle.PageText,
		Categories:  s.taxonomy.CategoryNames(),
	})
	if err != nil {
		log.Warnf("AI draft failed for %s, degrading to meta-only import: %v", sourceURL, err)
		return nil
	}
	return draft
}

var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid",
}

// NormalizeURL trims the input, defaults the scheme to https, strips
// tracking parameters and the fragment, and rejects anything that is not
// an absolute http(s) URL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	return u.String(), nil
}

var botMarkers = []string{
	"captcha", "are you a robot", "access denied",
	"attention required", "cf-browser-verification",
}

// Markers that indicate an actual marketplace page rather than an
// interstitial; a bot marker alone is not damning when these are present.
var contentMarkers = []string{"og:title", "cijena", "oglas", "application/ld+json"}

func insufficientContent(html string) bool {
	if len(html) < 500 {
		return true
	}
	lower := strings.ToLower(html)
	for _, marker := range botMarkers {
		if !strings.Contains(lower, marker) {
			continue
		}
		for _, content := range contentMarkers {
			if strings.Contains(lower, content) {
				return false
			}
		}
		return true
	}
	return false
}

func metaTitle(bundle *domain.ExtractionBundle) string {
	for _, key := range []string{"og:title", "twitter:title", "title"} {
		if title := strings.TrimSpace(bundle.Meta[key]); title != "" {
			return title
		}
	}
	return ""
}
