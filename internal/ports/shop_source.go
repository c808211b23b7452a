package ports

import (
	"context"
	"shop-directory-service/internal/domain"
)

// Contract for retrieving the current shop list from the remote shops API.
type ShopSource interface {
	// Return every shop the remote reports, in response order.
	// Failures are reported as *FetchError.
	FetchShops(ctx context.Context) ([]domain.Shop, error)
}
