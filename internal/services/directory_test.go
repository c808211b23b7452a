package services

import (
	"shop-directory-service/internal/domain"
	"slices"
	"testing"
)

func shopsFixture() []domain.Shop {
	return []domain.Shop{
		{ID: 1, Name: "A", Category: " Food ", Location: domain.NewGeoLocation(10, 20)},
		{ID: 2, Name: "B", Category: "food"},
		{ID: 3, Name: "C", Category: "Books"},
		{ID: 4, Name: "D", Category: "   "},
		{ID: 5, Name: "E", Category: "Food"},
		{ID: 6, Name: "F", Category: "Pharmacy"},
	}
}

func TestDeriveCategories(t *testing.T) {
	got := DeriveCategories(shopsFixture())
	want := []string{"Food", "Books", "Pharmacy"}
	if !slices.Equal(got, want) {
		t.Fatalf("DeriveCategories() = %q, want %q", got, want)
	}

	again := DeriveCategories(shopsFixture())
	if !slices.Equal(got, again) {
		t.Fatalf("order not stable: %q vs %q", got, again)
	}

	// Idempotent: feeding the derived set back yields the same set.
	asShops := make([]domain.Shop, 0, len(got))
	for _, c := range got {
		asShops = append(asShops, domain.Shop{Category: c})
	}
	if twice := DeriveCategories(asShops); !slices.Equal(twice, got) {
		t.Fatalf("not idempotent: %q vs %q", twice, got)
	}

	if empty := DeriveCategories(nil); len(empty) != 0 {
		t.Fatalf("DeriveCategories(nil) = %q, want empty", empty)
	}
}

func TestSelectCategory(t *testing.T) {
	cats := []string{"Food", "Books", "Pharmacy"}

	if got := SelectCategory(nil, "Books"); got != "Books" {
		t.Errorf("empty categories: got %q, want Books", got)
	}
	if got := SelectCategory([]string{}, ""); got != "" {
		t.Errorf("empty categories and selection: got %q, want empty", got)
	}
	if got := SelectCategory(cats, "books"); got != "Books" {
		t.Errorf("case-insensitive match: got %q, want Books", got)
	}
	if got := SelectCategory(cats, "Toys"); got != "Food" {
		t.Errorf("absent selection: got %q, want Food", got)
	}
	if got := SelectCategory(cats, ""); got != "Food" {
		t.Errorf("blank selection: got %q, want Food", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	shops := shopsFixture()

	got := FilterByCategory(shops, " FOOD ")
	ids := make([]int, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if !slices.Equal(ids, []int{1, 2, 5}) {
		t.Fatalf("FilterByCategory(FOOD) ids = %v, want [1 2 5]", ids)
	}

	if none := FilterByCategory(shops, "Toys"); len(none) != 0 {
		t.Fatalf("absent category: got %d shops, want 0", len(none))
	}
}

func TestToggleSelection(t *testing.T) {
	five := 5

	if got := ToggleSelection(&five, 5); got != nil {
		t.Errorf("ToggleSelection(5, 5) = %d, want nil", *got)
	}
	if got := ToggleSelection(&five, 7); got == nil || *got != 7 {
		t.Errorf("ToggleSelection(5, 7) = %v, want 7", got)
	}
	if got := ToggleSelection(nil, 7); got == nil || *got != 7 {
		t.Errorf("ToggleSelection(nil, 7) = %v, want 7", got)
	}
}

func TestEndToEndExample(t *testing.T) {
	shops := []domain.Shop{
		{ID: 1, Name: "A", Category: " Food ", Location: domain.NewGeoLocation(10, 20)},
		{ID: 2, Name: "B", Category: "food"},
	}

	cats := DeriveCategories(shops)
	if !slices.Equal(cats, []string{"Food"}) {
		t.Fatalf("categories = %q", cats)
	}
	if matched := FilterByCategory(shops, "food"); len(matched) != 2 {
		t.Fatalf("expected both shops to match food, got %d", len(matched))
	}
	if shops[1].Longitude() != 0 || shops[1].Latitude() != 0 {
		t.Fatalf("shop 2 coords = (%v, %v)", shops[1].Longitude(), shops[1].Latitude())
	}
}
