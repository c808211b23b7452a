package handlers

import (
	"net/http"
	"shop-directory-service/internal/api/dto"
	"shop-directory-service/internal/platform/obs"
	"shop-directory-service/internal/ports"
)

// StubHandler serves stored shops in the remote API's wire shape.
type StubHandler struct {
	Repo ports.ShopRepository
}

func (h *StubHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	shops, err := h.Repo.ListShops(r.Context())
	if err != nil {
		obs.Logger(r.Context()).Error().Err(err).Msg("list shops failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.UpstreamShop, 0, len(shops))
	for _, s := range shops {
		item := dto.UpstreamShop{
			ID:              s.ID,
			Name:            s.Name,
			PrimaryCategory: s.Category,
		}
		if s.Location.Coordinates != nil {
			item.Location = &dto.UpstreamLocation{Coordinates: s.Location.Coordinates}
		}
		res = append(res, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
