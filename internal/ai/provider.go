package ai

import "context"

// Signals is everything extracted from the page that the model may use to
// draft a listing.
type Signals struct {
	Meta        map[string]string
	JSONLD      string
	Breadcrumbs string
	Description string
	PageText    string
	Categories  []string // Fixed enumerated top-level category names
}

// Draft is the model's best-guess listing. Free text: nothing here is
// guaranteed to match the taxonomy verbatim, the resolver validates all
// of it.
type Draft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subcategory"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Location    string  `json:"location"`
	Condition   string  `json:"condition"`
}

// Provider is the AI text-generation boundary. Every method may fail or
// return garbage; callers always have a deterministic fallback.
type Provider interface {
	// ProposeListing drafts a listing from the extracted signals.
	ProposeListing(ctx context.Context, signals Signals) (*Draft, error)
	// PickCategory selects one of the given category names for a title.
	PickCategory(ctx context.Context, title string, categories []string) (string, error)
	// PickItemIndex selects an index into items for the already-resolved
	// subcategory. Out-of-range replies are the caller's problem to catch.
	PickItemIndex(ctx context.Context, title, subcategory string, items []string) (int, error)
}
