package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		mu.Lock()
		reqs = append(reqs, rec)
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "reorder_products"), &reqs
}

func TestProductIndex_Index(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := entity.ReorderProduct{ID: "p1", ListID: "l1", SKU: "A1", Name: "Apples", Quantity: 3}
	require.NoError(t, idx.Index(context.Background(), "u1", p))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/reorder_products/_doc/p1", got.path)
	assert.Equal(t, "u1", got.body["user_id"])
	assert.Equal(t, "A1", got.body["sku"])
	assert.EqualValues(t, 3, got.body["quantity"])
}

func TestProductIndex_RemoveMissingIsFine(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})

	require.NoError(t, idx.Remove(context.Background(), "p1"))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodDelete, (*reqs)[0].method)
}

func TestProductIndex_Search(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"p1","_source":{"id":"p1","list_id":"l1","user_id":"u1","sku":"A1","name":"Apples","quantity":2}}]}}`)
	})

	found, err := idx.Search(context.Background(), "u1", "apple", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entity.ReorderProduct{ID: "p1", ListID: "l1", SKU: "A1", Name: "Apples", Quantity: 2}, found[0])

	body := (*reqs)[0].body
	assert.EqualValues(t, 5, body["size"])
	filter := body["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
	assert.Equal(t, map[string]any{"term": map[string]any{"user_id": "u1"}}, filter[0])
}

func TestProductIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, err := idx.Search(context.Background(), "u1", "apple", 5)
	require.Error(t, err)
}
