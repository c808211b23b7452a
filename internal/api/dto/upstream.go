package dto

// Wire shape served by the upstream stub, matching the remote shops API.
type UpstreamShop struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	PrimaryCategory string            `json:"primaryCategory"`
	Location        *UpstreamLocation `json:"location"`
}

type UpstreamLocation struct {
	Coordinates []float64 `json:"coordinates"`
}
