package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/platform/obs"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultElasticPageSize = 1000

// ElasticShopRepository keeps the shop fixtures in an Elasticsearch index.
// Raw coordinates are stored as-is; complete pairs are also indexed as a geo_point.
type ElasticShopRepository struct {
	Client   *elasticsearch.Client
	Index    string
	PageSize int
}

func NewElasticShopRepository(client *elasticsearch.Client, index string) *ElasticShopRepository {
	return &ElasticShopRepository{Client: client, Index: index}
}

type shopDocument struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	PrimaryCategory string    `json:"primaryCategory"`
	Coordinates     []float64 `json:"coordinates,omitempty"`
	Geo             []float64 `json:"geo,omitempty"`
}

type shopSearchResult struct {
	Hits struct {
		Hits []struct {
			Source shopDocument `json:"_source"`
			Sort   []any        `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

const shopIndexMapping = `{
	"mappings": {
		"properties": {
			"id":              {"type": "integer"},
			"name":            {"type": "text"},
			"primaryCategory": {"type": "keyword"},
			"coordinates":     {"type": "double"},
			"geo":             {"type": "geo_point"}
		}
	}
}`

// EnsureIndex creates the shop index with its mapping when it does not exist yet.
func (r *ElasticShopRepository) EnsureIndex(ctx context.Context) error {
	if r.Client == nil {
		return errors.New("ensure index: client is nil")
	}

	res, err := r.Client.Indices.Exists([]string{r.Index}, r.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ensure index %q: %w", r.Index, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("ensure index %q: exists check returned %s", r.Index, res.Status())
	}

	res, err = r.Client.Indices.Create(
		r.Index,
		r.Client.Indices.Create.WithContext(ctx),
		r.Client.Indices.Create.WithBody(strings.NewReader(shopIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("ensure index %q: create: %w", r.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ensure index %q: create: %s", r.Index, res.String())
	}
	return nil
}

// IndexShops writes shops in one bulk request keyed by shop id, so reseeding overwrites.
func (r *ElasticShopRepository) IndexShops(ctx context.Context, shops []domain.Shop) (err error) {
	defer obs.Time(ctx, "es.index_shops")(&err)

	if len(shops) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, s := range shops {
		meta := map[string]map[string]string{"index": {"_id": strconv.Itoa(s.ID)}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("index shops: encode meta for %d: %w", s.ID, err)
		}
		if err := enc.Encode(toShopDocument(s)); err != nil {
			return fmt.Errorf("index shops: encode shop %d: %w", s.ID, err)
		}
	}

	res, err := r.Client.Bulk(
		&body,
		r.Client.Bulk.WithContext(ctx),
		r.Client.Bulk.WithIndex(r.Index),
		r.Client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index shops: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index shops: %s", res.String())
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("index shops: decode bulk response: %w", err)
	}
	if result.Errors {
		return errors.New("index shops: bulk request reported item errors")
	}

	return nil
}

// ListShops pages through the index ordered by shop id using search_after.
func (r *ElasticShopRepository) ListShops(ctx context.Context) (_ []domain.Shop, err error) {
	defer obs.Time(ctx, "es.list_shops")(&err)

	if r.Client == nil {
		return nil, errors.New("list shops: client is nil")
	}

	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = defaultElasticPageSize
	}

	shops := make([]domain.Shop, 0)
	var searchAfter []any

	for {
		query := map[string]any{
			"size": pageSize,
			"sort": []map[string]string{{"id": "asc"}},
		}
		if searchAfter != nil {
			query["search_after"] = searchAfter
		}

		body, err := json.Marshal(query)
		if err != nil {
			return nil, fmt.Errorf("list shops: encode query: %w", err)
		}

		page, err := r.search(ctx, body)
		if err != nil {
			return nil, err
		}

		hits := page.Hits.Hits
		if len(hits) == 0 {
			break
		}
		for _, h := range hits {
			shops = append(shops, fromShopDocument(h.Source))
		}
		if len(hits) < pageSize {
			break
		}
		searchAfter = hits[len(hits)-1].Sort
	}

	return shops, nil
}

func (r *ElasticShopRepository) search(ctx context.Context, body []byte) (shopSearchResult, error) {
	res, err := r.Client.Search(
		r.Client.Search.WithContext(ctx),
		r.Client.Search.WithIndex(r.Index),
		r.Client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return shopSearchResult{}, fmt.Errorf("list shops: search %q: %w", r.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return shopSearchResult{}, fmt.Errorf("list shops: search %q: %s", r.Index, res.String())
	}

	var result shopSearchResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return shopSearchResult{}, fmt.Errorf("list shops: decode search response: %w", err)
	}
	return result, nil
}

func toShopDocument(s domain.Shop) shopDocument {
	doc := shopDocument{
		ID:              s.ID,
		Name:            s.Name,
		PrimaryCategory: s.Category,
		Coordinates:     s.Location.Coordinates,
	}
	if s.Location.HasCoordinates() {
		doc.Geo = s.Location.CoordsToList()
	}
	return doc
}

func fromShopDocument(doc shopDocument) domain.Shop {
	return domain.Shop{
		ID:       doc.ID,
		Name:     doc.Name,
		Category: doc.PrimaryCategory,
		Location: domain.GeoLocation{Coordinates: doc.Coordinates},
	}
}
