package domain

// ExtractionBundle carries everything pulled out of the raw HTML before it
// is discarded. Produced fresh per request, never cached across requests.
type ExtractionBundle struct {
	Images      []string          `json:"images"`
	Meta        map[string]string `json:"meta"`
	JSONLD      string            `json:"json_ld"`
	Breadcrumbs string            `json:"breadcrumbs"`
	Location    string            `json:"location"`
	Description string            `json:"description"`
	PageText    string            `json:"page_text"`
}
