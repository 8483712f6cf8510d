package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/bluestock/ipo-api/internal/domain/entity"
)

var searchFields = []string{"company_name^3", "issue_type", "status", "price_band"}

// IPOIndex keeps IPO documents in an Elasticsearch index keyed by row id.
type IPOIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewIPOIndex(es *elasticsearch.Client, index string) *IPOIndex {
	return &IPOIndex{es: es, index: index}
}

func (x *IPOIndex) Index(ctx context.Context, ipo entity.IPO) error {
	body, err := json.Marshal(ipo)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(ipo.ID, 10),
		Body:       bytes.NewReader(body),
	}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return checkResponse(res, "index")
}

// Delete removes a document. A missing document is not an error.
func (x *IPOIndex) Delete(ctx context.Context, id int64) error {
	res, err := esapi.DeleteRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(id, 10),
	}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkResponse(res, "delete")
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source entity.IPO `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (x *IPOIndex) Search(ctx context.Context, query string, limit int) ([]entity.IPO, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, err
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if err := checkResponse(res, "search"); err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]entity.IPO, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func checkResponse(res *esapi.Response, op string) error {
	if !res.IsError() {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), bytes.TrimSpace(b))
}
