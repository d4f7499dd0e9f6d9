// Package graphsync mirrors the visa knowledge base into a property graph as
// (:Visa) nodes joined by [:NEXT_STEP] relationships.
package graphsync

import (
	"context"
	"fmt"
	"time"

	"visa-pathway-workers/internal/common/graphdb"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/visa"
)

const (
	constraintCypher = `CREATE CONSTRAINT visa_id_unique IF NOT EXISTS FOR (v:Visa) REQUIRE v.id IS UNIQUE`

	upsertVisasCypher = `UNWIND $visas AS v
MERGE (n:Visa {id: v.id})
SET n.code = v.code, n.name = v.name, n.category = v.category, n.tier = v.tier,
    n.difficulty = v.difficulty, n.timeHorizon = v.timeHorizon, n.ruleCount = v.ruleCount, n.syncedAt = $syncedAt`

	upsertEdgesCypher = `UNWIND $edges AS e
MATCH (a:Visa {id: e.from}), (b:Visa {id: e.to})
MERGE (a)-[r:NEXT_STEP]->(b)
SET r.reason = e.reason, r.syncedAt = $syncedAt`

	pruneEdgesCypher = `MATCH (:Visa)-[r:NEXT_STEP]->(:Visa) WHERE r.syncedAt <> $syncedAt DELETE r`

	pruneVisasCypher = `MATCH (n:Visa) WHERE NOT n.id IN $ids DETACH DELETE n`

	countCypher = `MATCH (n:Visa) OPTIONAL MATCH (n)-[r:NEXT_STEP]->() RETURN count(DISTINCT n) AS visas, count(r) AS edges`
)

type Stats struct {
	Visas int `json:"visas"`
	Edges int `json:"edges"`
}

type Syncer struct {
	client graphdb.Client
	logger logger.Logger
	now    func() time.Time
}

func NewSyncer(client graphdb.Client, log logger.Logger) *Syncer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Syncer{client: client, logger: log, now: time.Now}
}

// Sync upserts every visa and next-step edge. Edges to unknown visas are
// skipped. With prune set, nodes and edges absent from kb are removed.
func (s *Syncer) Sync(ctx context.Context, kb *visa.KnowledgeBase, prune bool) (Stats, error) {
	syncedAt := s.now().UTC().Format(time.RFC3339Nano)

	if _, err := s.client.ExecuteWrite(ctx, constraintCypher, nil); err != nil {
		s.logger.Warn("graph constraint setup failed, continuing", map[string]interface{}{"error": err.Error()})
	}

	defs := kb.All()
	nodes := make([]map[string]any, 0, len(defs))
	ids := make([]string, 0, len(defs))
	var edges []map[string]any
	for _, d := range defs {
		ids = append(ids, d.ID)
		nodes = append(nodes, map[string]any{
			"id":          d.ID,
			"code":        d.Code,
			"name":        d.Name,
			"category":    string(d.Category),
			"tier":        string(d.Tier),
			"difficulty":  int64(d.Difficulty),
			"timeHorizon": string(d.TimeHorizon),
			"ruleCount":   int64(len(d.EligibilityRules)),
		})
		for _, step := range d.CommonNextSteps {
			if !kb.Has(step.VisaID) || step.VisaID == d.ID {
				continue
			}
			edges = append(edges, map[string]any{"from": d.ID, "to": step.VisaID, "reason": step.Reason})
		}
	}

	if _, err := s.client.ExecuteWrite(ctx, upsertVisasCypher, map[string]any{"visas": nodes, "syncedAt": syncedAt}); err != nil {
		return Stats{}, fmt.Errorf("upsert visa nodes: %w", err)
	}
	if len(edges) > 0 {
		if _, err := s.client.ExecuteWrite(ctx, upsertEdgesCypher, map[string]any{"edges": edges, "syncedAt": syncedAt}); err != nil {
			return Stats{}, fmt.Errorf("upsert next-step edges: %w", err)
		}
	}

	if prune {
		if _, err := s.client.ExecuteWrite(ctx, pruneEdgesCypher, map[string]any{"syncedAt": syncedAt}); err != nil {
			return Stats{}, fmt.Errorf("prune stale edges: %w", err)
		}
		if _, err := s.client.ExecuteWrite(ctx, pruneVisasCypher, map[string]any{"ids": ids}); err != nil {
			return Stats{}, fmt.Errorf("prune stale visas: %w", err)
		}
	}

	stats := Stats{Visas: len(nodes), Edges: len(edges)}
	s.logger.Info("visa graph synced", map[string]interface{}{
		"visas": stats.Visas,
		"edges": stats.Edges,
		"prune": prune,
	})
	return stats, nil
}

// Count reads back how many visa nodes and next-step edges the graph holds.
func (s *Syncer) Count(ctx context.Context) (Stats, error) {
	res, err := s.client.ExecuteRead(ctx, countCypher, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("count visa graph: %w", err)
	}
	if len(res.Records) == 0 {
		return Stats{}, nil
	}
	visas, _ := res.Records[0].Int64("visas")
	edges, _ := res.Records[0].Int64("edges")
	return Stats{Visas: int(visas), Edges: int(edges)}, nil
}
