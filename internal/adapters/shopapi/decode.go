package shopapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"shop-directory-service/internal/domain"
)

// Upstream keys, matched exactly. encoding/json folds case when decoding into
// structs, so records are read as raw maps and looked up by these names.
const (
	keyID              = "id"
	keyName            = "name"
	keyPrimaryCategory = "primaryCategory"
	keyLocation        = "location"
	keyCoordinates     = "coordinates"
)

// DecodeShops decodes the upstream body permissively.
//
// The top level must be a JSON array of objects; anything else is an error.
// Inside each object unknown keys are ignored and values of the wrong type
// fall back to the field's zero value (0, "", or an empty location).
func DecodeShops(body []byte) ([]domain.Shop, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("decode shops: empty body")
	}
	if trimmed[0] != '[' {
		return nil, errors.New("decode shops: top-level value is not an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode shops: parse array: %w", err)
	}

	shops := make([]domain.Shop, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("decode shops: element %d is not an object", i)
		}

		var rec map[string]json.RawMessage
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("decode shops: element %d: %w", i, err)
		}

		shops = append(shops, domain.Shop{
			ID:       decodeInt(rec[keyID]),
			Name:     decodeString(rec[keyName]),
			Category: decodeString(rec[keyPrimaryCategory]),
			Location: decodeLocation(rec[keyLocation]),
		})
	}

	return shops, nil
}

func decodeInt(raw json.RawMessage) int {
	var n int
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	return n
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeFloat(raw json.RawMessage) float64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	return f
}

// decodeLocation accepts null, a missing key, a missing or null coordinates
// list and short lists. Non-numeric entries read as 0.
func decodeLocation(raw json.RawMessage) domain.GeoLocation {
	if len(raw) == 0 {
		return domain.GeoLocation{}
	}

	var loc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &loc); err != nil {
		return domain.GeoLocation{}
	}

	coordinates := loc[keyCoordinates]
	var entries []json.RawMessage
	if len(coordinates) == 0 || json.Unmarshal(coordinates, &entries) != nil || entries == nil {
		return domain.GeoLocation{}
	}

	coords := make([]float64, 0, len(entries))
	for _, e := range entries {
		coords = append(coords, decodeFloat(e))
	}

	return domain.GeoLocation{Coordinates: coords}
}
