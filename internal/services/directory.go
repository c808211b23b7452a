package services

import (
	"shop-directory-service/internal/domain"
	"strings"
)

// DeriveCategories returns the distinct, trimmed, non-blank categories of shops
// in first-seen order. Duplicates are matched ignoring case; the first spelling wins.
func DeriveCategories(shops []domain.Shop) []string {
	seen := make(map[string]struct{}, len(shops))
	out := make([]string, 0, len(shops))
	for _, s := range shops {
		c := strings.TrimSpace(s.Category)
		if c == "" {
			continue
		}

		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	return out
}

// SelectCategory reconciles a previous selection against a fresh category list.
//
// Empty categories keep the previous value. A case-insensitive match returns
// the entry as spelled in categories; otherwise the first entry wins.
func SelectCategory(categories []string, previous string) string {
	if len(categories) == 0 {
		return previous
	}

	for _, c := range categories {
		if strings.EqualFold(c, previous) {
			return c
		}
	}

	return categories[0]
}

// FilterByCategory returns, in input order, the shops whose trimmed category
// equals the trimmed argument ignoring case.
func FilterByCategory(shops []domain.Shop, category string) []domain.Shop {
	want := strings.TrimSpace(category)

	out := make([]domain.Shop, 0, len(shops))
	for _, s := range shops {
		if strings.EqualFold(strings.TrimSpace(s.Category), want) {
			out = append(out, s)
		}
	}

	return out
}

// ToggleSelection implements tap-again-to-deselect: tapping the selected shop
// clears the selection, tapping any other shop selects it.
func ToggleSelection(current *int, candidate int) *int {
	if current != nil && *current == candidate {
		return nil
	}

	id := candidate
	return &id
}
