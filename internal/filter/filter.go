// Package filter derives the visible product list from the catalog and the
// shopper's category and search selection.
package filter

import (
	"strings"

	"petshop/internal/catalog"

	"golang.org/x/text/cases"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

// Selection is the ephemeral browse state.
type Selection struct {
	Category string
	Search   string
}

// DefaultSelection shows the whole catalog.
func DefaultSelection() Selection {
	return Selection{Category: AllCategories}
}

// Matches reports whether p is visible under sel.
func (sel Selection) Matches(p catalog.Product) bool {
	return sel.matchesCategory(p) && matchesSearch(p, fold(sel.Search))
}

func (sel Selection) matchesCategory(p catalog.Product) bool {
	return sel.Category == AllCategories || sel.Category == "" || p.Category == sel.Category
}

func matchesSearch(p catalog.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(fold(p.Name), term) || strings.Contains(fold(p.Description), term)
}

// Visible returns the products visible under sel in catalog order. It never
// returns nil for an empty match.
func Visible(products []catalog.Product, sel Selection) []catalog.Product {
	term := fold(sel.Search)
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if sel.matchesCategory(p) && matchesSearch(p, term) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the selector vocabulary: AllCategories followed by the
// given categories.
func Categories(categories []string) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, AllCategories)
	return append(out, categories...)
}

// fold is Unicode case folding. A cases.Caser carries state, so a new one
// is created per call.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
