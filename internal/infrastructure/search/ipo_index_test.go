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

	"github.com/bluestock/ipo-api/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         []byte
}

func newTestIndex(t *testing.T, status int, reply string) (*IPOIndex, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{r.Method, r.URL.Path, b})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIPOIndex(es, "ipos"), func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func TestIPOIndex_Index(t *testing.T) {
	x, calls := newTestIndex(t, http.StatusCreated, `{"result":"created"}`)

	err := x.Index(context.Background(), entity.IPO{ID: 12, CompanyName: "Acme", Status: "open"})
	require.NoError(t, err)
	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/ipos/_doc/12", got[0].path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(got[0].body, &doc))
	assert.Equal(t, "Acme", doc["company_name"])
}

func TestIPOIndex_DeleteMissingIsNotError(t *testing.T) {
	x, _ := newTestIndex(t, http.StatusNotFound, `{"result":"not_found"}`)
	assert.NoError(t, x.Delete(context.Background(), 99))
}

func TestIPOIndex_Search(t *testing.T) {
	reply := `{"hits":{"hits":[{"_source":{"id":3,"company_name":"Acme Corp","status":"listed"}}]}}`
	x, calls := newTestIndex(t, http.StatusOK, reply)

	got, err := x.Search(context.Background(), "acme", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, "Acme Corp", got[0].CompanyName)

	req := calls()[0]
	assert.Equal(t, "/ipos/_search", req.path)
	assert.Contains(t, string(req.body), `"multi_match"`)
	assert.Contains(t, string(req.body), `"size":5`)
}

func TestIPOIndex_SearchError(t *testing.T) {
	x, _ := newTestIndex(t, http.StatusInternalServerError, `{"error":"boom"}`)
	_, err := x.Search(context.Background(), "acme", 5)
	assert.ErrorContains(t, err, "elasticsearch search")
}
