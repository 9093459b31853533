package resolve

import (
	"context"

	log "github.com/sirupsen/logrus"

	"oglasnik/importer/internal/ai"
	"oglasnik/importer/internal/domain"
)

const (
	// Combined subcategory scores below this trigger the AI-hint retry.
	lowConfidenceScore = 2
	// Item scores below this trigger the AI pick-by-index call.
	weakItemScore = 2
)

// Resolver turns noisy category signals into exactly one
// {category, subcategory, item} triple guaranteed valid against the
// taxonomy.
type Resolver struct {
	taxonomy *domain.Taxonomy
	provider ai.Provider // nil when AI is disabled
}

func NewResolver(taxonomy *domain.Taxonomy, provider ai.Provider) *Resolver {
	return &Resolver{taxonomy: taxonomy, provider: provider}
}

// Resolve assigns Category, SubCategory and CategoryItem on the listing.
// On entry the listing carries the AI proposal (free text); on exit every
// assigned value exists verbatim in the taxonomy.
func (r *Resolver) Resolve(ctx context.Context, listing *domain.Listing, bundle *domain.ExtractionBundle) {
	aiSubHint := listing.SubCategory
	category := listing.Category
	signalText := listing.Title + " " + bundle.Breadcrumbs

	// Breadcrumb override: on-site navigation outranks AI inference.
	if bundle.Breadcrumbs != "" {
		if cat, ok := matchBreadcrumbOverride(bundle.Breadcrumbs); ok {
			if !categoriesAgree(cat, category) {
				log.Debugf("Breadcrumb override: %q -> %q", category, cat)
			}
			category = cat
		}
	}

	// Keyword sanity check: title keywords outrank an AI guess that may
	// have hallucinated.
	if kwCat, ok := classifyByKeywords(signalText); ok && !categoriesAgree(kwCat, category) {
		log.Debugf("Keyword sanity override: %q -> %q", category, kwCat)
		category = kwCat
	}

	cat := r.resolveCategory(ctx, category, listing.Title, signalText)
	listing.Category = cat.Name

	if len(cat.SubCategories) == 0 {
		listing.SubCategory = ""
		listing.CategoryItem = ""
		return
	}

	group := r.resolveSubCategory(cat, bundle.Breadcrumbs, aiSubHint, listing.Title, signalText)
	listing.SubCategory = group.Name
	listing.CategoryItem = r.resolveItem(ctx, group, listing.Title, signalText)
}

// resolveCategory validates the working category name against the tree and
// walks the fallback ladder when there is none: keyword classifier, a
// single AI re-prompt restricted to the fixed category list, then the
// hardcoded default. Always returns a real taxonomy node.
func (r *Resolver) resolveCategory(ctx context.Context, category, title, signalText string) *domain.Category {
	if cat := r.taxonomy.FindCategory(category); cat != nil {
		return cat
	}

	if kwCat, ok := classifyByKeywords(signalText); ok {
		if cat := r.taxonomy.FindCategory(kwCat); cat != nil {
			return cat
		}
	}

	if r.provider != nil {
		names := r.taxonomy.CategoryNames()
		picked, err := r.provider.PickCategory(ctx, title, names)
		if err != nil {
			log.Warnf("AI category fallback failed: %v", err)
		} else if cat := r.taxonomy.FindCategory(picked); cat != nil {
			return cat
		}
	}

	if cat := r.taxonomy.FindCategory(CategoryDefault); cat != nil {
		return cat
	}
	return &r.taxonomy.Categories[0]
}

// resolveSubCategory picks the deepest match by combined scoring:
// breadcrumb overlap + AI hint overlap + title overlap + the best
// item-level score within each subcategory. Ties break on taxonomy order.
func (r *Resolver) resolveSubCategory(cat *domain.Category, breadcrumbs, aiSubHint, title, signalText string) *domain.SubCategoryGroup {
	best := 0
	bestScore := -1

	for i := range cat.SubCategories {
		group := &cat.SubCategories[i]
		score := overlapScore(breadcrumbs, group.Name) +
			overlapScore(aiSubHint, group.Name) +
			overlapScore(title, group.Name)
		_, itemScore := bestItemFor(group, signalText)
		score += itemScore

		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore >= lowConfidenceScore {
		return &cat.SubCategories[best]
	}

	// Low confidence: trust only the AI's subcategory hint, matched
	// stem-aware; failing that, the taxonomy's first subcategory. A
	// category must always yield some subcategory.
	if aiSubHint != "" {
		for i := range cat.SubCategories {
			if StemMatch(aiSubHint, cat.SubCategories[i].Name) {
				return &cat.SubCategories[i]
			}
		}
	}
	return &cat.SubCategories[0]
}

// resolveItem picks the leaf item and enforces the validity invariant:
// whatever happens, the returned item is a verbatim member of the
// subcategory's item list (or empty when the list is empty).
func (r *Resolver) resolveItem(ctx context.Context, group *domain.SubCategoryGroup, title, signalText string) string {
	if len(group.Items) == 0 {
		return ""
	}

	item, itemScore := bestItemFor(group, signalText)

	if itemScore < weakItemScore && r.provider != nil {
		idx, err := r.provider.PickItemIndex(ctx, title, group.Name, group.Items)
		if err != nil {
			log.Warnf("AI item selection failed for %q: %v", group.Name, err)
			item = fallbackItem(group, signalText)
		} else if idx >= 0 && idx < len(group.Items) {
			item = group.Items[idx]
		} else {
			log.Warnf("AI item index %d out of range for %q", idx, group.Name)
			item = fallbackItem(group, signalText)
		}
	}

	if item == "" {
		item = fallbackItem(group, signalText)
	}

	if valid, ok := validateItem(group, item); ok {
		return valid
	}
	return fallbackItem(group, signalText)
}

// bestItemFor scores every candidate item against the signal text and
// returns the winner. Ties break on list order.
func bestItemFor(group *domain.SubCategoryGroup, signalText string) (string, int) {
	bestItem := ""
	bestScore := 0
	for _, item := range group.Items {
		if score := overlapScore(signalText, item); score > bestScore {
			bestItem = item
			bestScore = score
		}
	}
	return bestItem, bestScore
}
