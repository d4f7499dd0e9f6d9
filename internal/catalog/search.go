package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

var ErrIndexNotFound = errors.New("catalog index not found")

type Query struct {
	Text       string
	Categories []string
	Size       int
}

type Hit struct {
	Document
	Score float64 `json:"score"`
}

type Result struct {
	Hits      []Hit
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// BuildSearchBody turns q into a bool query. Empty text matches everything;
// categories become a terms filter so they do not affect scoring.
func BuildSearchBody(q Query) map[string]interface{} {
	boolQuery := map[string]interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  text,
					"fields": []string{"code^4", "name^3", "description^2", "requirements"},
					"type":   "best_fields",
				},
			},
		}
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	if len(q.Categories) > 0 {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"terms": map[string]interface{}{"category": q.Categories}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{"_score", map[string]interface{}{"id": "asc"}},
	}
}

func clampSize(n int) int {
	switch {
	case n <= 0:
		return DefaultSize
	case n > MaxSize:
		return MaxSize
	default:
		return n
	}
}

type Searcher struct {
	client *elasticsearch.Client
	index  string
}

func NewSearcher(client *elasticsearch.Client, index string) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	return &Searcher{client: client, index: index}
}

func (s *Searcher) Index() string {
	return s.index
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Score  *float64 `json:"_score"`
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Searcher) Search(ctx context.Context, q Query) (*Result, error) {
	body, err := json.Marshal(BuildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	size := clampSize(q.Size)

	req := esapi.SearchRequest{
		Index:          []string{s.index},
		Body:           bytes.NewReader(body),
		Size:           &size,
		TrackTotalHits: true,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", s.index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Hits:      make([]Hit, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      r.Took,
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, h := range r.Hits.Hits {
		hit := Hit{Document: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
