package domain

import "time"

type PriceType string

const (
	PriceTypeFixed      PriceType = "fixed"
	PriceTypeNegotiable PriceType = "negotiable"
	PriceTypeOnRequest  PriceType = "on_request"
)

// Local currency code; BAM from structured data is normalized to this.
const LocalCurrency = "KM"

// Condition labels used by the condition classifier.
const (
	ConditionNew      = "Novo"
	ConditionLikeNew  = "Kao novo"
	ConditionUsed     = "Korišteno"
	ConditionForParts = "Za dijelove"
)

// Listing is the normalized record produced by the import pipeline. It is
// mutated in place through the pipeline stages; a stage may only fill a
// field that is still empty, except the breadcrumb-override and keyword
// sanity-check stages which are allowed to correct the category path.
type Listing struct {
	ID           string            `json:"id"`
	SourceURL    string            `json:"source_url"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Price        float64           `json:"price"`
	PriceType    PriceType         `json:"price_type,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	Category     string            `json:"category,omitempty"`
	SubCategory  string            `json:"sub_category,omitempty"`
	CategoryItem string            `json:"category_item,omitempty"`
	Condition    string            `json:"condition,omitempty"`
	Year         int               `json:"year,omitempty"`
	Mileage      int               `json:"mileage,omitempty"`
	Location     string            `json:"location,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Fallback     bool              `json:"_fallback,omitempty"`
	ImportedAt   time.Time         `json:"imported_at"`
}

// SetAttribute fills a category-specific attribute only if it is not
// already set from a higher-priority source.
func (l *Listing) SetAttribute(key, value string) {
	if value == "" {
		return
	}
	if l.Attributes == nil {
		l.Attributes = make(map[string]string)
	}
	if _, ok := l.Attributes[key]; !ok {
		l.Attributes[key] = value
	}
}

// ImportResult is the outbound shape of one import operation.
type ImportResult struct {
	Success bool     `json:"success"`
	Data    *Listing `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Hint    string   `json:"hint,omitempty"`
}
