package shopapi

import (
	"context"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/ports"
	"sync"
)

// MockShopSource is an in-memory ports.ShopSource for tests and offline runs.
// When Gate is non-nil each fetch waits for a value on it (or ctx cancellation).
type MockShopSource struct {
	mu    sync.Mutex
	shops []domain.Shop
	err   error
	calls int

	Gate chan struct{}
}

func NewMockShopSource(shops []domain.Shop) *MockShopSource {
	return &MockShopSource{shops: shops}
}

// SetShops replaces the list returned by later fetches and clears any error.
func (m *MockShopSource) SetShops(shops []domain.Shop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shops = shops
	m.err = nil
}

// Fail makes later fetches return a FetchError with msg.
func (m *MockShopSource) Fail(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = ports.NewFetchError(msg, nil)
}

func (m *MockShopSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockShopSource) FetchShops(ctx context.Context) ([]domain.Shop, error) {
	m.mu.Lock()
	m.calls++
	shops, err := m.shops, m.err
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ports.NewFetchError("could not reach shops API", ctx.Err())
		}
	}

	if err != nil {
		return nil, err
	}

	out := make([]domain.Shop, len(shops))
	copy(out, shops)
	return out, nil
}
