package graphsync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/graphdb"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/visa"
)

func newTestSyncer(t *testing.T, client graphdb.Client) *Syncer {
	s := NewSyncer(client, logger.NewTestLogger(t))
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestSync_DefaultCatalog(t *testing.T) {
	client := graphdb.NewMemoryClient()
	kb := visa.NewDefault()

	stats, err := newTestSyncer(t, client).Sync(context.Background(), kb, false)
	require.NoError(t, err)

	wantEdges := 0
	for _, d := range kb.All() {
		wantEdges += len(d.CommonNextSteps)
	}
	assert.Equal(t, Stats{Visas: kb.Len(), Edges: wantEdges}, stats)

	writes := client.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, constraintCypher, writes[0].Cypher)

	nodes := writes[1].Params["visas"].([]map[string]any)
	assert.Len(t, nodes, kb.Len())
	assert.Equal(t, "b2", nodes[0]["id"])
	assert.Equal(t, "2026-01-02T03:04:05Z", writes[1].Params["syncedAt"])

	edges := writes[2].Params["edges"].([]map[string]any)
	assert.Contains(t, edges, map[string]any{"from": "f1", "to": "opt", "reason": "Work in your field of study after graduation"})
}

func TestSync_SkipsDanglingAndSelfEdges(t *testing.T) {
	kb := visa.MustNew([]visa.Definition{
		{ID: "a", CommonNextSteps: []visa.NextStep{{VisaID: "a"}, {VisaID: "ghost"}, {VisaID: "b"}}},
		{ID: "b"},
	})
	client := graphdb.NewMemoryClient()

	stats, err := newTestSyncer(t, client).Sync(context.Background(), kb, true)
	require.NoError(t, err)
	assert.Equal(t, Stats{Visas: 2, Edges: 1}, stats)

	writes := client.Writes()
	require.Len(t, writes, 5)
	assert.Equal(t, pruneEdgesCypher, writes[3].Cypher)
	assert.Equal(t, []string{"a", "b"}, writes[4].Params["ids"])
}

func TestSync_NoEdgesSkipsEdgeStatement(t *testing.T) {
	kb := visa.MustNew([]visa.Definition{{ID: "solo"}})
	client := graphdb.NewMemoryClient()

	_, err := newTestSyncer(t, client).Sync(context.Background(), kb, false)
	require.NoError(t, err)
	assert.Len(t, client.Writes(), 2)
}

func TestSync_ConstraintFailureIsNotFatal(t *testing.T) {
	client := graphdb.NewMemoryClient().FailWhen(func(c string) error {
		if strings.HasPrefix(c, "CREATE CONSTRAINT") {
			return errors.New("permission denied")
		}
		return nil
	})
	log, logs := logger.NewObservedLogger(0)
	s := NewSyncer(client, log)

	_, err := s.Sync(context.Background(), visa.NewDefault(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("graph constraint setup failed, continuing").Len())
}

func TestSync_NodeFailureIsReturned(t *testing.T) {
	client := graphdb.NewMemoryClient().FailWhen(func(c string) error {
		if strings.HasPrefix(c, "UNWIND $visas") {
			return errors.New("connection reset")
		}
		return nil
	})

	_, err := newTestSyncer(t, client).Sync(context.Background(), visa.NewDefault(), false)
	assert.ErrorContains(t, err, "upsert visa nodes")
}

func TestCount(t *testing.T) {
	client := graphdb.NewMemoryClient()
	client.QueueRead(graphdb.Result{Records: []graphdb.Record{{"visas": int64(17), "edges": int64(30)}}})
	s := newTestSyncer(t, client)

	stats, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Visas: 17, Edges: 30}, stats)

	stats, err = s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats)
}
