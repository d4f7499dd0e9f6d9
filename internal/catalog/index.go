package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/visa"
)

type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Indexer{client: client, index: index, logger: log}
}

// EnsureIndex creates the index with IndexMapping when it does not exist.
// With recreate set an existing index is dropped first.
func (ix *Indexer) EnsureIndex(ctx context.Context, recreate bool) error {
	es := ix.client

	res, err := es.Indices.Exists([]string{ix.index}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", ix.index, err)
	}
	res.Body.Close()
	exists := res.StatusCode == http.StatusOK

	if exists && recreate {
		res, err := es.Indices.Delete([]string{ix.index}, es.Indices.Delete.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("delete index %s: %w", ix.index, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("delete index %s: %s", ix.index, res.Status())
		}
		ix.logger.Info("catalog index dropped", map[string]interface{}{"index": ix.index})
		exists = false
	}
	if exists {
		return nil
	}

	res, err = es.Indices.Create(ix.index,
		es.Indices.Create.WithBody(strings.NewReader(IndexMapping)),
		es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", ix.index, res.String())
	}
	ix.logger.Info("catalog index created", map[string]interface{}{"index": ix.index})
	return nil
}

// BulkBody renders the knowledge base as an NDJSON bulk request, one index
// action per visa keyed by its id.
func BulkBody(kb *visa.KnowledgeBase) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, def := range kb.All() {
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": def.ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if err := enc.Encode(DocumentFromDefinition(def)); err != nil {
			return nil, fmt.Errorf("encode visa %s: %w", def.ID, err)
		}
	}
	return buf.Bytes(), nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// IndexAll upserts every visa and waits for the index to refresh. It returns
// the number of documents written.
func (ix *Indexer) IndexAll(ctx context.Context, kb *visa.KnowledgeBase) (int, error) {
	body, err := BulkBody(kb)
	if err != nil {
		return 0, err
	}
	if len(body) == 0 {
		return 0, nil
	}

	es := ix.client
	res, err := es.Bulk(bytes.NewReader(body),
		es.Bulk.WithIndex(ix.index),
		es.Bulk.WithRefresh("wait_for"),
		es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("bulk index %s: %s", ix.index, res.String())
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	written, failed := 0, 0
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error != nil {
				failed++
				ix.logger.Warn("visa not indexed", map[string]interface{}{
					"visaId": result.ID,
					"reason": result.Error.Reason,
				})
				continue
			}
			written++
		}
	}
	if failed > 0 {
		return written, fmt.Errorf("bulk index %s: %d of %d documents failed", ix.index, failed, failed+written)
	}
	return written, nil
}
