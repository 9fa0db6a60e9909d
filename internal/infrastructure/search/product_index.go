// Package search mirrors reorder products into Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const productMapping = `{
  "mappings": {
    "properties": {
      "id":       {"type": "keyword"},
      "list_id":  {"type": "keyword"},
      "user_id":  {"type": "keyword"},
      "sku":      {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "name":     {"type": "text"},
      "quantity": {"type": "integer"}
    }
  }
}`

type productDoc struct {
	ID       string `json:"id"`
	ListID   string `json:"list_id"`
	UserID   string `json:"user_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ProductIndex is an application.ProductIndexer backed by one ES index.
type ProductIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, IndexName: index}
}

// EnsureIndex creates the index with its mapping if it does not exist yet.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Indices.Exists([]string{x.IndexName}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = x.ES.Indices.Create(x.IndexName,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(productMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.IndexName, res.Status())
	}
	return nil
}

func (x *ProductIndex) Index(ctx context.Context, userID string, p entity.ReorderProduct) error {
	b, err := json.Marshal(productDoc{
		ID:       p.ID,
		ListID:   p.ListID,
		UserID:   userID,
		SKU:      p.SKU,
		Name:     p.Name,
		Quantity: p.Quantity,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.Status())
	}
	return nil
}

// Remove deletes the document; a missing document is not an error.
func (x *ProductIndex) Remove(ctx context.Context, productID string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: productID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove product %s: %s", productID, res.Status())
	}
	return nil
}

// Search matches query against sku and name within one user's products.
func (x *ProductIndex) Search(ctx context.Context, userID, query string, size int) ([]entity.ReorderProduct, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"sku.text^2", "name"},
					},
				},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.ReorderProduct, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		out = append(out, entity.ReorderProduct{ID: d.ID, UserID: d.UserID, ListID: d.ListID, SKU: d.SKU, Name: d.Name, Quantity: d.Quantity})
	}
	return out, nil
}
