package domain

import "strings"

// DirectoryState is the view model of the shop map.
// It is owned by a single controller and updated only through the
// directory reducers; readers always receive a Clone.
type DirectoryState struct {
	Shops            []Shop
	Loading          bool
	Error            *string
	Categories       []string
	SelectedCategory string
	SelectedShopID   *int
}

// VisibleShops returns the shops matching the selected category.
// With no known categories, or none selected, every shop is visible; a
// selection kept across a reload that produced no categories does not filter.
func (s DirectoryState) VisibleShops() []Shop {
	want := strings.TrimSpace(s.SelectedCategory)
	if want == "" || len(s.Categories) == 0 {
		out := make([]Shop, len(s.Shops))
		copy(out, s.Shops)
		return out
	}

	out := make([]Shop, 0, len(s.Shops))
	for _, shop := range s.Shops {
		if strings.EqualFold(strings.TrimSpace(shop.Category), want) {
			out = append(out, shop)
		}
	}
	return out
}

// Shop looks up a shop by id.
func (s DirectoryState) Shop(id int) (Shop, bool) {
	for _, shop := range s.Shops {
		if shop.ID == id {
			return shop, true
		}
	}
	return Shop{}, false
}

// Clone returns a deep copy so callers can hold it without aliasing controller state.
func (s DirectoryState) Clone() DirectoryState {
	out := DirectoryState{
		Loading:          s.Loading,
		SelectedCategory: s.SelectedCategory,
	}

	if s.Shops != nil {
		out.Shops = make([]Shop, len(s.Shops))
		for i, shop := range s.Shops {
			if shop.Location.Coordinates != nil {
				shop.Location.Coordinates = append([]float64(nil), shop.Location.Coordinates...)
			}
			out.Shops[i] = shop
		}
	}
	if s.Categories != nil {
		out.Categories = append([]string(nil), s.Categories...)
	}
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	if s.SelectedShopID != nil {
		id := *s.SelectedShopID
		out.SelectedShopID = &id
	}

	return out
}
