package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oglasnik/importer/internal/ai"
	"oglasnik/importer/internal/domain"
)

func testTaxonomy() *domain.Taxonomy {
	return &domain.Taxonomy{Categories: []domain.Category{
		{ID: "vozila", Name: "Vozila", SubCategories: []domain.SubCategoryGroup{
			{Name: "Osobni automobili", Items: []string{"Volkswagen", "BMW", "Mercedes-Benz", "Audi", "Ostalo"}},
			{Name: "Motocikli", Items: []string{"Yamaha", "Honda", "Ostalo"}},
		}},
		{ID: "auto-dijelovi", Name: "Auto dijelovi i oprema", SubCategories: []domain.SubCategoryGroup{
			{Name: "Dijelovi za automobile", Items: []string{"Motor i dijelovi motora", "Svjetla i signalizacija", "Felge i gume", "Ostalo"}},
		}},
		{ID: "mobilni-uredjaji", Name: "Mobilni uređaji", SubCategories: []domain.SubCategoryGroup{
			{Name: "Mobilni telefoni", Items: []string{"Apple", "Samsung", "Ostalo"}},
		}},
		{ID: "ostalo", Name: "Ostalo", SubCategories: []domain.SubCategoryGroup{
			{Name: "Razno"},
		}},
	}}
}

type stubProvider struct {
	pickCategoryFn  func(title string, categories []string) (string, error)
	pickItemIndexFn func(title, subcategory string, items []string) (int, error)
}

func (s *stubProvider) ProposeListing(ctx context.Context, signals ai.Signals) (*ai.Draft, error) {
	return nil, errors.New("not used")
}

func (s *stubProvider) PickCategory(ctx context.Context, title string, categories []string) (string, error) {
	if s.pickCategoryFn == nil {
		return "", errors.New("unavailable")
	}
	return s.pickCategoryFn(title, categories)
}

func (s *stubProvider) PickItemIndex(ctx context.Context, title, subcategory string, items []string) (int, error) {
	if s.pickItemIndexFn == nil {
		return 0, errors.New("unavailable")
	}
	return s.pickItemIndexFn(title, subcategory, items)
}

func TestResolveBreadcrumbOverridesAICategory(t *testing.T) {
	r := NewResolver(testTaxonomy(), &stubProvider{})

	listing := &domain.Listing{
		Title:    "Far za Golfa 5",
		Category: "Vozila", // AI guessed whole vehicles
	}
	bundle := &domain.ExtractionBundle{
		Breadcrumbs: "Početna > Dijelovi > Auto svjetla",
	}

	r.Resolve(context.Background(), listing, bundle)

	assert.Equal(t, CategoryCarParts, listing.Category)
	assert.Equal(t, "Dijelovi za automobile", listing.SubCategory)
	assert.Equal(t, "Svjetla i signalizacija", listing.CategoryItem)
}

func TestResolveKeywordSanityCheckOverridesAI(t *testing.T) {
	r := NewResolver(testTaxonomy(), nil)

	listing := &domain.Listing{
		Title:    "Golf 4 1.9 TDI",
		Category: "Mobilni uređaji", // AI hallucination
	}

	r.Resolve(context.Background(), listing, &domain.ExtractionBundle{})

	assert.Equal(t, CategoryVehicles, listing.Category)
	assert.Equal(t, "Osobni automobili", listing.SubCategory)
	assert.Equal(t, "Volkswagen", listing.CategoryItem)
}

func TestResolveFallbackLadderTerminates(t *testing.T) {
	// No recognizable keywords and a failing AI still yield a category.
	r := NewResolver(testTaxonomy(), &stubProvider{})

	listing := &domain.Listing{Title: "xkcd qwerty"}

	r.Resolve(context.Background(), listing, &domain.ExtractionBundle{})

	assert.Equal(t, CategoryDefault, listing.Category)
	assert.Equal(t, "Razno", listing.SubCategory)
	assert.Empty(t, listing.CategoryItem)
}

func TestResolveItemNeverLeavesTaxonomy(t *testing.T) {
	// The item rule target "Nokia" is absent from the fixture's item list
	// and the AI answers out of range; the result must still come from the
	// real list.
	r := NewResolver(testTaxonomy(), &stubProvider{
		pickItemIndexFn: func(title, subcategory string, items []string) (int, error) {
			return 99, nil
		},
	})

	listing := &domain.Listing{
		Title:       "Prodajem Nokia 3310",
		Category:    "Mobilni uređaji",
		SubCategory: "Mobilni telefoni",
	}

	r.Resolve(context.Background(), listing, &domain.ExtractionBundle{})

	assert.Equal(t, "Mobilni uređaji", listing.Category)
	assert.Equal(t, "Mobilni telefoni", listing.SubCategory)
	group := r.taxonomy.FindCategory(listing.Category).FindSubCategory(listing.SubCategory)
	require.NotNil(t, group)
	assert.True(t, group.HasItem(listing.CategoryItem))
	assert.Equal(t, "Ostalo", listing.CategoryItem)
}

func TestResolveDeepestMatchWithAIItemPick(t *testing.T) {
	var offered []string
	r := NewResolver(testTaxonomy(), &stubProvider{
		pickItemIndexFn: func(title, subcategory string, items []string) (int, error) {
			offered = items
			for i, item := range items {
				if item == "BMW" {
					return i, nil
				}
			}
			return 0, nil
		},
	})

	listing := &domain.Listing{
		Title:       "BMW 320d 2015",
		Category:    "Vozila",
		SubCategory: "Osobni automobili",
	}
	bundle := &domain.ExtractionBundle{
		Breadcrumbs: "Vozila > Osobni automobili",
	}

	r.Resolve(context.Background(), listing, bundle)

	assert.Equal(t, CategoryVehicles, listing.Category)
	assert.Equal(t, "Osobni automobili", listing.SubCategory)
	assert.Equal(t, "BMW", listing.CategoryItem)
	assert.NotEmpty(t, offered)
}

func TestResolveDeterministicWithoutAI(t *testing.T) {
	r := NewResolver(testTaxonomy(), nil)

	run := func() *domain.Listing {
		listing := &domain.Listing{
			Title:    "Audi A4 2.0 TDI",
			Category: "Vozila",
		}
		bundle := &domain.ExtractionBundle{
			Breadcrumbs: "Vozila > Osobni automobili",
		}
		r.Resolve(context.Background(), listing, bundle)
		return listing
	}

	first, second := run(), run()
	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, first.SubCategory, second.SubCategory)
	assert.Equal(t, first.CategoryItem, second.CategoryItem)
}
