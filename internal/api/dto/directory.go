package dto

type ShopResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Selected  bool    `json:"selected"`
}

type DirectoryResponse struct {
	Loading          bool           `json:"loading"`
	Error            *string        `json:"error"`
	Categories       []string       `json:"categories"`
	SelectedCategory string         `json:"selected_category"`
	SelectedShopID   *int           `json:"selected_shop_id"`
	Shops            []ShopResponse `json:"shops"`
	VisibleShops     []ShopResponse `json:"visible_shops"`
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type CategoryResponse struct {
	SelectedCategory string `json:"selected_category"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type SelectionRequest struct {
	ShopID *int `json:"shop_id"`
}

type SelectionResponse struct {
	SelectedShopID *int `json:"selected_shop_id"`
}

type ListShopsResponse struct {
	Shops []ShopResponse `json:"shops"`
}
