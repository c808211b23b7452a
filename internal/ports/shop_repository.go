package ports

import (
	"context"
	"shop-directory-service/internal/domain"
)

// Port: a boundary for reading shop fixtures backing the local upstream stub.
type ShopRepository interface {
	// Retrieve all stored shops ordered by id.
	ListShops(ctx context.Context) ([]domain.Shop, error)
}
