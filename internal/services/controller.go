package services

import (
	"context"
	"errors"
	"fmt"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/ports"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrClosed          = errors.New("directory: controller closed")
	ErrSuperseded      = errors.New("directory: load superseded by a newer load")
	ErrUnknownCategory = errors.New("directory: unknown category")
	ErrUnknownShop     = errors.New("directory: unknown shop")
	ErrAmbiguousShop   = errors.New("directory: shop id shared by several shops")
)

// DirectoryController owns one DirectoryState and drives it through the
// idle -> fetching -> settled lifecycle.
//
// Only the latest Load may write its result; older loads are cancelled and
// their results dropped. After Close no load result reaches the state.
// Fetches run outside the lock so snapshots stay available while loading.
type DirectoryController struct {
	source ports.ShopSource
	logger zerolog.Logger

	lifetime context.Context
	stop     context.CancelFunc

	mu       sync.Mutex
	state    domain.DirectoryState
	gen      uint64
	inflight context.CancelFunc
	closed   bool
}

func NewDirectoryController(source ports.ShopSource, logger zerolog.Logger) *DirectoryController {
	lifetime, stop := context.WithCancel(context.Background())
	return &DirectoryController{
		source:   source,
		logger:   logger.With().Str("component", "directory").Logger(),
		lifetime: lifetime,
		stop:     stop,
	}
}

// Load fetches the shop list and applies it to the state.
//
// On success the shop collection is replaced wholesale, categories are
// re-derived and the selected category reconciled. On failure the error
// message is recorded and the previous shops are left untouched. A load
// cancelled through ctx or Close only clears the loading flag.
func (c *DirectoryController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.inflight != nil {
		c.inflight()
	}
	c.gen++
	gen := c.gen

	loadCtx, cancel := context.WithCancel(ctx)
	stopWatch := context.AfterFunc(c.lifetime, cancel)
	c.inflight = cancel

	c.state.Loading = true
	c.state.Error = nil
	c.mu.Unlock()

	defer func() {
		stopWatch()
		cancel()
	}()

	shops, err := c.source.FetchShops(loadCtx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug().Uint64("gen", gen).Msg("dropping load result after close")
		return ErrClosed
	}
	if gen != c.gen {
		c.logger.Debug().Uint64("gen", gen).Uint64("current", c.gen).Msg("dropping superseded load result")
		return ErrSuperseded
	}
	c.inflight = nil
	c.state.Loading = false

	if err != nil {
		if loadCtx.Err() != nil {
			c.logger.Info().Err(err).Msg("shop load cancelled")
			return fmt.Errorf("load shops: %w", err)
		}

		msg := err.Error()
		var fe *ports.FetchError
		if errors.As(err, &fe) {
			msg = fe.Error()
		}
		c.state.Error = &msg

		c.logger.Error().Err(err).Msg("shop load failed")
		return fmt.Errorf("load shops: %w", err)
	}

	c.apply(shops)

	c.logger.Info().
		Int("shops", len(shops)).
		Int("categories", len(c.state.Categories)).
		Str("selected_category", c.state.SelectedCategory).
		Msg("shops loaded")

	return nil
}

// Start runs Load in the background and reports its outcome on the returned channel.
func (c *DirectoryController) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- c.Load(ctx)
	}()
	return done
}

// apply replaces the shop collection; callers hold c.mu.
func (c *DirectoryController) apply(shops []domain.Shop) {
	c.state.Shops = shops
	c.state.Categories = DeriveCategories(shops)
	c.state.SelectedCategory = SelectCategory(c.state.Categories, c.state.SelectedCategory)
	c.dropHiddenSelection()
}

// dropHiddenSelection clears a selected shop that is no longer on the map,
// or whose id now names more than one marker.
func (c *DirectoryController) dropHiddenSelection() {
	if c.state.SelectedShopID == nil {
		return
	}
	if c.visibleMatches(*c.state.SelectedShopID) == 1 {
		return
	}
	c.state.SelectedShopID = nil
}

// visibleMatches counts visible shops carrying id; callers hold c.mu.
func (c *DirectoryController) visibleMatches(id int) int {
	n := 0
	for _, s := range c.state.VisibleShops() {
		if s.ID == id {
			n++
		}
	}
	return n
}

// Close is the teardown signal: it cancels any in-flight load and makes
// every later Load a no-op.
func (c *DirectoryController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.state.Loading = false
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.stop()
}

// ChooseCategory selects the category matching name ignoring case and
// surrounding blanks, stored with its canonical spelling.
func (c *DirectoryController) ChooseCategory(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.state.Categories) == 0 {
		return "", fmt.Errorf("choose category %q: %w", name, ErrUnknownCategory)
	}

	want := strings.TrimSpace(name)
	for _, cat := range c.state.Categories {
		if strings.EqualFold(cat, want) {
			c.state.SelectedCategory = cat
			c.dropHiddenSelection()
			return cat, nil
		}
	}

	return "", fmt.Errorf("choose category %q: %w", name, ErrUnknownCategory)
}

// TapShop toggles the selection of a visible shop and returns the new selection.
// Ids shared by several visible shops cannot be selected.
func (c *DirectoryController) TapShop(id int) (*int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.visibleMatches(id) {
	case 0:
		return nil, fmt.Errorf("tap shop %d: %w", id, ErrUnknownShop)
	case 1:
	default:
		// Ids the decoder defaulted to 0 can collide; one tap must not light up several markers.
		return nil, fmt.Errorf("tap shop %d: %w", id, ErrAmbiguousShop)
	}

	c.state.SelectedShopID = ToggleSelection(c.state.SelectedShopID, id)
	if c.state.SelectedShopID == nil {
		return nil, nil
	}
	sel := *c.state.SelectedShopID
	return &sel, nil
}

// Snapshot returns a deep copy of the current state.
func (c *DirectoryController) Snapshot() domain.DirectoryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}
