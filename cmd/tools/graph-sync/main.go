// cmd/tools/graph-sync/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/graphdb"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/graphsync"
	"visa-pathway-workers/internal/visa"
)

func main() {
	uri := flag.String("uri", envOr("NEO4J_URI", "bolt://localhost:7687"), "Neo4j bolt URI")
	database := flag.String("database", envOr("NEO4J_DATABASE", "neo4j"), "Neo4j database")
	username := flag.String("username", envOr("NEO4J_USERNAME", "neo4j"), "Neo4j username")
	password := flag.String("password", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")
	catalogPath := flag.String("catalog", "", "Visa catalog JSON file (built-in catalog when empty)")
	prune := flag.Bool("prune", false, "Remove visas and edges no longer in the catalog")
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout")
	flag.Parse()

	log := logger.NewStructured(envOr("LOG_LEVEL", "info"), "console")

	kb, err := visa.LoadKnowledgeBase(*catalogPath)
	if err != nil {
		fail(log, "catalog load failed", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := graphdb.NewNeo4jClient(ctx, graphdb.OptionsFromConfig(config.Neo4jConfig{
		URI:      *uri,
		Database: *database,
		Username: *username,
		Password: *password,
	}))
	if err != nil {
		fail(log, "graph connection failed", err)
	}
	defer client.Close(context.Background())

	stats, err := run(ctx, client, kb, *prune, log)
	if err != nil {
		fail(log, "graph sync failed", err)
	}
	log.Info("visa graph synced", map[string]interface{}{
		"uri":   *uri,
		"visas": stats.Visas,
		"edges": stats.Edges,
		"prune": *prune,
	})
}

// run syncs kb into client and reads back what the graph holds afterwards.
func run(ctx context.Context, client graphdb.Client, kb *visa.KnowledgeBase, prune bool, log logger.Logger) (graphsync.Stats, error) {
	s := graphsync.NewSyncer(client, log)
	written, err := s.Sync(ctx, kb, prune)
	if err != nil {
		return graphsync.Stats{}, err
	}
	stored, err := s.Count(ctx)
	if err != nil {
		return written, err
	}
	if stored.Visas < written.Visas {
		return stored, fmt.Errorf("graph holds %d visas, wrote %d", stored.Visas, written.Visas)
	}
	return stored, nil
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
