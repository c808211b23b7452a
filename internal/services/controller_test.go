package services

import (
	"context"
	"errors"
	"fmt"
	"shop-directory-service/internal/adapters/shopapi"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/ports"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDirectoryControllerLoad(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{
		{ID: 1, Name: "A", Category: " Food ", Location: domain.NewGeoLocation(10, 20)},
		{ID: 2, Name: "B", Category: "food"},
		{ID: 3, Name: "C", Category: "Books"},
	})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := c.Snapshot()
	if state.Loading {
		t.Fatal("expected Loading=false after load")
	}
	if state.Error != nil {
		t.Fatalf("unexpected error state: %q", *state.Error)
	}
	if len(state.Shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(state.Shops))
	}
	if !slices.Equal(state.Categories, []string{"Food", "Books"}) {
		t.Fatalf("categories = %q", state.Categories)
	}
	if state.SelectedCategory != "Food" {
		t.Fatalf("selected category = %q, want Food", state.SelectedCategory)
	}
	if visible := state.VisibleShops(); len(visible) != 2 {
		t.Fatalf("expected 2 visible shops, got %d", len(visible))
	}
}

func TestDirectoryControllerReconcilesCategory(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{
		{ID: 1, Category: "Food"},
		{ID: 2, Category: "Books"},
	})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, err := c.ChooseCategory(" BOOKS "); err != nil || got != "Books" {
		t.Fatalf("ChooseCategory = %q, %v; want Books", got, err)
	}

	// Same category with different casing survives the reload in its new spelling.
	source.SetShops([]domain.Shop{{ID: 3, Category: "Toys"}, {ID: 4, Category: "books"}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c.Snapshot().SelectedCategory; got != "books" {
		t.Fatalf("selected = %q, want books", got)
	}

	// Category gone: fall back to the first one.
	source.SetShops([]domain.Shop{{ID: 5, Category: "Garden"}, {ID: 6, Category: "Toys"}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c.Snapshot().SelectedCategory; got != "Garden" {
		t.Fatalf("selected = %q, want Garden", got)
	}

	if _, err := c.ChooseCategory("Books"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestDirectoryControllerLoadError(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{{ID: 1, Category: "Food"}})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	source.Fail("shops API returned status 500")
	err := c.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	state := c.Snapshot()
	if state.Error == nil || *state.Error != "shops API returned status 500" {
		t.Fatalf("error state = %v", state.Error)
	}
	if state.Loading {
		t.Fatal("expected Loading=false after failure")
	}
	if len(state.Shops) != 1 {
		t.Fatalf("previous shops should be kept, got %d", len(state.Shops))
	}

	source.SetShops([]domain.Shop{{ID: 2, Category: "Food"}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Snapshot().Error != nil {
		t.Fatal("a successful load should clear the error")
	}
}

func TestDirectoryControllerCloseDropsInflightResult(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{{ID: 1, Category: "Food"}})
	source.Gate = make(chan struct{})
	c := NewDirectoryController(source, zerolog.Nop())

	done := c.Start(context.Background())
	waitFor(t, "fetch to start", func() bool { return source.Calls() == 1 })

	c.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load did not return after Close")
	}

	state := c.Snapshot()
	if len(state.Shops) != 0 || state.Error != nil || state.Loading {
		t.Fatalf("state mutated after close: %+v", state)
	}

	if err := c.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Load after Close: expected ErrClosed, got %v", err)
	}
	if source.Calls() != 1 {
		t.Fatalf("Load after Close should not fetch, calls=%d", source.Calls())
	}
}

func TestDirectoryControllerCallerCancellation(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{{ID: 1, Category: "Food"}})
	source.Gate = make(chan struct{})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := c.Start(ctx)
	waitFor(t, "fetch to start", func() bool { return source.Calls() == 1 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	state := c.Snapshot()
	if state.Loading || state.Error != nil || len(state.Shops) != 0 {
		t.Fatalf("cancelled load should only clear Loading: %+v", state)
	}
}

func TestDirectoryControllerNewerLoadSupersedes(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{{ID: 1, Category: "Old"}})
	source.Gate = make(chan struct{})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	first := c.Start(context.Background())
	waitFor(t, "first fetch", func() bool { return source.Calls() == 1 })

	source.SetShops([]domain.Shop{{ID: 2, Category: "New"}})
	second := c.Start(context.Background())

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first load: expected ErrSuperseded, got %v", err)
	}

	waitFor(t, "second fetch", func() bool { return source.Calls() == 2 })
	source.Gate <- struct{}{}

	if err := <-second; err != nil {
		t.Fatalf("second load: %v", err)
	}

	state := c.Snapshot()
	if len(state.Shops) != 1 || state.Shops[0].ID != 2 {
		t.Fatalf("shops = %+v, want only id 2", state.Shops)
	}
	if state.SelectedCategory != "New" {
		t.Fatalf("selected = %q, want New", state.SelectedCategory)
	}
}

func TestDirectoryControllerTapShop(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{
		{ID: 5, Category: "Food"},
		{ID: 7, Category: "Food"},
		{ID: 9, Category: "Books"},
	})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	sel, err := c.TapShop(5)
	if err != nil || sel == nil || *sel != 5 {
		t.Fatalf("TapShop(5) = %v, %v; want 5", sel, err)
	}
	sel, err = c.TapShop(7)
	if err != nil || sel == nil || *sel != 7 {
		t.Fatalf("TapShop(7) = %v, %v; want 7", sel, err)
	}
	sel, err = c.TapShop(7)
	if err != nil || sel != nil {
		t.Fatalf("TapShop(7) again = %v, %v; want nil", sel, err)
	}

	if _, err := c.TapShop(42); !errors.Is(err, ErrUnknownShop) {
		t.Fatalf("unknown shop: expected ErrUnknownShop, got %v", err)
	}
	if _, err := c.TapShop(9); !errors.Is(err, ErrUnknownShop) {
		t.Fatalf("hidden shop: expected ErrUnknownShop, got %v", err)
	}

	if _, err := c.TapShop(5); err != nil {
		t.Fatalf("TapShop(5): %v", err)
	}
	if _, err := c.ChooseCategory("books"); err != nil {
		t.Fatalf("ChooseCategory: %v", err)
	}
	if c.Snapshot().SelectedShopID != nil {
		t.Fatal("switching category should clear a hidden selection")
	}

	if _, err := c.TapShop(9); err != nil {
		t.Fatalf("TapShop(9): %v", err)
	}
	source.SetShops([]domain.Shop{{ID: 5, Category: "Books"}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c.Snapshot().SelectedShopID != nil {
		t.Fatal("reload without the selected shop should clear the selection")
	}
}

func TestDirectoryControllerReloadToBlankCategories(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{{ID: 1, Category: "Food"}})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	source.SetShops([]domain.Shop{{ID: 2, Category: ""}, {ID: 3, Category: "  "}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	state := c.Snapshot()
	if len(state.Categories) != 0 {
		t.Fatalf("categories = %q, want none", state.Categories)
	}
	if state.SelectedCategory != "Food" {
		t.Fatalf("selected = %q, want previous selection kept", state.SelectedCategory)
	}
	if visible := state.VisibleShops(); len(visible) != 2 {
		t.Fatalf("expected every shop visible without categories, got %d", len(visible))
	}

	sel, err := c.TapShop(2)
	if err != nil || sel == nil || *sel != 2 {
		t.Fatalf("TapShop(2) = %v, %v; want 2", sel, err)
	}
}

func TestDirectoryControllerRejectsSharedIDs(t *testing.T) {
	source := shopapi.NewMockShopSource([]domain.Shop{
		{ID: 0, Name: "A", Category: "Food"},
		{ID: 0, Name: "B", Category: "Food"},
		{ID: 4, Name: "C", Category: "Food"},
	})
	c := NewDirectoryController(source, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := c.TapShop(0); !errors.Is(err, ErrAmbiguousShop) {
		t.Fatalf("expected ErrAmbiguousShop, got %v", err)
	}
	if c.Snapshot().SelectedShopID != nil {
		t.Fatal("shared id must not be selected")
	}

	if _, err := c.TapShop(4); err != nil {
		t.Fatalf("TapShop(4): %v", err)
	}
	// A reload that duplicates the selected id clears the selection.
	source.SetShops([]domain.Shop{{ID: 4, Category: "Food"}, {ID: 4, Category: "Food"}})
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c.Snapshot().SelectedShopID != nil {
		t.Fatal("selection should clear once its id is shared")
	}
}

type wrappingShopSource struct{}

func (wrappingShopSource) FetchShops(ctx context.Context) ([]domain.Shop, error) {
	cause := errors.New("response body: boom")
	return nil, fmt.Errorf("upstream adapter: %w", ports.NewFetchError("shops API returned status 500", cause))
}

func TestDirectoryControllerStoresFetchErrorText(t *testing.T) {
	c := NewDirectoryController(wrappingShopSource{}, zerolog.Nop())
	defer c.Close()

	if err := c.Load(context.Background()); !ports.IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	state := c.Snapshot()
	if state.Error == nil || *state.Error != "shops API returned status 500: response body: boom" {
		t.Fatalf("error state = %v", state.Error)
	}
}
