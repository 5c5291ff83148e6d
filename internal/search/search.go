// Package search mirrors products into an elasticsearch index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrDisabled = errors.New("search is disabled")

type Index interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	Search(ctx context.Context, query string, size int) ([]models.Product, error)
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(ctx context.Context, cfg Config) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &Elastic{es: client, index: cfg.Index}, nil
}

func (e *Elastic) IndexProduct(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return err
	}
	res, err := e.es.Index(
		e.index,
		&buf,
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func buildQuery(query string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
}

func (e *Elastic) Search(ctx context.Context, query string, size int) ([]models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, size)); err != nil {
		return nil, err
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]models.Product, error) {
	var body struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	prods := make([]models.Product, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		prods = append(prods, hit.Source)
	}
	return prods, nil
}

// Disabled is used when ES_URL is not set.
type Disabled struct{}

func (Disabled) IndexProduct(context.Context, *models.Product) error { return nil }

func (Disabled) Search(context.Context, string, int) ([]models.Product, error) {
	return nil, ErrDisabled
}
