package handlers

import (
	"context"
	"errors"
	"net/http"
	"shop-directory-service/internal/api/dto"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/platform/obs"
	"shop-directory-service/internal/ports"
	"shop-directory-service/internal/services"
	"strings"
)

// Directory is the controller surface the HTTP layer drives.
type Directory interface {
	Load(ctx context.Context) error
	Snapshot() domain.DirectoryState
	ChooseCategory(name string) (string, error)
	TapShop(id int) (*int, error)
}

// DirectoryHandler exposes the directory state and its reducers to a map UI.
type DirectoryHandler struct {
	Directory Directory
}

func (h *DirectoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	writeJSON(w, r, http.StatusOK, toDirectoryResponse(h.Directory.Snapshot()))
}

// Refresh runs one fetch bound to the request and returns the settled state.
func (h *DirectoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	err := h.Directory.Load(r.Context())
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, toDirectoryResponse(h.Directory.Snapshot()))
	case r.Context().Err() != nil:
		obs.Logger(r.Context()).Info().Msg("refresh abandoned by client")
	case errors.Is(err, services.ErrSuperseded):
		writeError(w, r, http.StatusConflict, "refresh superseded by a newer refresh")
	case errors.Is(err, services.ErrClosed):
		writeError(w, r, http.StatusServiceUnavailable, "directory is shutting down")
	case ports.IsFetchError(err):
		msg := err.Error()
		if state := h.Directory.Snapshot(); state.Error != nil {
			msg = *state.Error
		}
		writeError(w, r, http.StatusBadGateway, msg)
	default:
		obs.Logger(r.Context()).Error().Err(err).Msg("refresh failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *DirectoryHandler) Category(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}

	var req dto.CategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, r, http.StatusBadRequest, "category is required")
		return
	}

	selected, err := h.Directory.ChooseCategory(req.Category)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			writeError(w, r, http.StatusBadRequest, "unknown category")
			return
		}
		obs.Logger(r.Context()).Error().Err(err).Msg("choose category failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CategoryResponse{SelectedCategory: selected})
}

// Selection toggles the tapped marker: tapping the selected shop deselects it.
func (h *DirectoryHandler) Selection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.SelectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ShopID == nil {
		writeError(w, r, http.StatusBadRequest, "shop_id is required")
		return
	}

	selected, err := h.Directory.TapShop(*req.ShopID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownShop) {
			writeError(w, r, http.StatusNotFound, "shop not found")
			return
		}
		if errors.Is(err, services.ErrAmbiguousShop) {
			writeError(w, r, http.StatusConflict, "shop id is shared by several shops")
			return
		}
		obs.Logger(r.Context()).Error().Err(err).Msg("tap shop failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{SelectedShopID: selected})
}

func (h *DirectoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	categories := h.Directory.Snapshot().Categories
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, r, http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// Shops lists shops, filtered by the optional category query parameter.
func (h *DirectoryHandler) Shops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	state := h.Directory.Snapshot()
	shops := state.Shops
	if category := r.URL.Query().Get("category"); strings.TrimSpace(category) != "" {
		shops = services.FilterByCategory(shops, category)
	}

	writeJSON(w, r, http.StatusOK, dto.ListShopsResponse{
		Shops: toShopResponses(shops, state.SelectedShopID),
	})
}
