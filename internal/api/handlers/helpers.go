package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"shop-directory-service/internal/api/dto"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/platform/obs"
)

const maxRequestBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).Error().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeBody strictly decodes exactly one JSON object from the request body.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func toShopResponses(shops []domain.Shop, selected *int) []dto.ShopResponse {
	out := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, dto.ShopResponse{
			ID:        s.ID,
			Name:      s.Name,
			Category:  s.Category,
			Longitude: s.Longitude(),
			Latitude:  s.Latitude(),
			Selected:  selected != nil && *selected == s.ID,
		})
	}
	return out
}

func toDirectoryResponse(state domain.DirectoryState) dto.DirectoryResponse {
	categories := state.Categories
	if categories == nil {
		categories = []string{}
	}

	return dto.DirectoryResponse{
		Loading:          state.Loading,
		Error:            state.Error,
		Categories:       categories,
		SelectedCategory: state.SelectedCategory,
		SelectedShopID:   state.SelectedShopID,
		Shops:            toShopResponses(state.Shops, state.SelectedShopID),
		VisibleShops:     toShopResponses(state.VisibleShops(), state.SelectedShopID),
	}
}
