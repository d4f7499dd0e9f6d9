// cmd/tools/catalog-indexer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"visa-pathway-workers/internal/catalog"
	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/database"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/visa"
)

func main() {
	addresses := flag.String("es", envOr("ELASTICSEARCH_URL", "http://localhost:9200"), "Comma separated Elasticsearch addresses")
	username := flag.String("username", os.Getenv("ELASTICSEARCH_USERNAME"), "Elasticsearch username")
	password := flag.String("password", os.Getenv("ELASTICSEARCH_PASSWORD"), "Elasticsearch password")
	index := flag.String("index", catalog.DefaultIndex, "Target index")
	catalogPath := flag.String("catalog", "", "Visa catalog JSON file (built-in catalog when empty)")
	recreate := flag.Bool("recreate", false, "Drop and recreate the index before indexing")
	strict := flag.Bool("strict", false, "Abort when the catalog has validation issues")
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout")
	flag.Parse()

	log := logger.NewStructured(envOr("LOG_LEVEL", "info"), "console")

	kb, err := loadCatalog(*catalogPath, *strict, log)
	if err != nil {
		fail(log, "catalog load failed", err)
	}

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{
		Addresses: strings.Split(*addresses, ","),
		Username:  *username,
		Password:  *password,
	})
	if err != nil {
		fail(log, "elasticsearch client failed", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := es.Ping(ctx); err != nil {
		fail(log, "elasticsearch unreachable", err)
	}

	ix := catalog.NewIndexer(es.Client, *index, log)
	if err := ix.EnsureIndex(ctx, *recreate); err != nil {
		fail(log, "index setup failed", err)
	}
	n, err := ix.IndexAll(ctx, kb)
	if err != nil {
		fail(log, "indexing failed", err)
	}

	log.Info("visa catalog indexed", map[string]interface{}{
		"index":   *index,
		"indexed": n,
		"total":   kb.Len(),
	})
	if n < kb.Len() {
		os.Exit(2)
	}
}

func loadCatalog(path string, strict bool, log logger.Logger) (*visa.KnowledgeBase, error) {
	kb, err := visa.LoadKnowledgeBase(path)
	if err != nil {
		return nil, err
	}
	issues := kb.Validate()
	for _, issue := range issues {
		log.Warn("visa catalog issue", map[string]interface{}{"visaId": issue.VisaID, "issue": issue.Message})
	}
	if strict && len(issues) > 0 {
		return nil, fmt.Errorf("catalog has %d issue(s)", len(issues))
	}
	return kb, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err.Error()})
	os.Exit(1)
}
